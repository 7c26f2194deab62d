package ast

// Kind tags every parsed construct with one of a closed set of shapes.
// Anything the adapters cannot name stays KindUnknown; downstream logic
// must treat that as "opaque statement, default identity".
type Kind int

const (
	KindUnknown Kind = iota

	// Manifest DSL shapes.
	KindCall        // method call, with or without an attached block
	KindAssignment  // receiver.field = value
	KindString      // string literal argument
	KindSymbol      // symbol literal argument
	KindConditional // if/unless/case/while wrapper statement

	// Markdown block shapes.
	KindHeading
	KindListItem
	KindTable
	KindCodeFence
	KindHTMLBlock
	KindLink
	KindImage
	KindLinkDefinition
	KindParagraph
)

func (k Kind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindAssignment:
		return "assignment"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindConditional:
		return "conditional"
	case KindHeading:
		return "heading"
	case KindListItem:
		return "list_item"
	case KindTable:
		return "table"
	case KindCodeFence:
		return "code_fence"
	case KindHTMLBlock:
		return "html_block"
	case KindLink:
		return "link"
	case KindImage:
		return "image"
	case KindLinkDefinition:
		return "link_definition"
	case KindParagraph:
		return "paragraph"
	default:
		return "unknown"
	}
}

// Position is a zero-based line/column location in the source text.
type Position struct {
	Line   int
	Column int
}

// Node is the universal container for one parsed construct. It owns a copy
// of its exact source slice so later stages never touch the parser again.
type Node struct {
	Kind     Kind
	Name     string  // call method name, assignment field, code fence language
	Receiver string  // flattened receiver path ("spec", "Gem::Specification"); empty if none
	Value    string  // literal value for String/Symbol; block text for markdown kinds
	Args     []*Node // call arguments in order
	Body     []*Node // statements of an attached block, nil when no block
	Level    int     // heading level for markdown headings

	Source     string // exact source slice of this construct
	Comment    string // trailing same-line comment text, empty if none
	CommentEnd int    // byte offset past the trailing comment, 0 if none
	StartByte  int
	EndByte    int
	Start      Position
	End        Position
}

// HasBlock reports whether the call carries an attached do/{} block.
func (n *Node) HasBlock() bool {
	return n != nil && n.Kind == KindCall && n.Body != nil
}

// FirstLiteral returns the literal value of the first argument when it is a
// string or symbol, independent of quoting style. ok is false otherwise.
func (n *Node) FirstLiteral() (string, bool) {
	if n == nil || len(n.Args) == 0 {
		return "", false
	}
	return n.Args[0].Literal()
}

// Literal returns the node's own literal value for string/symbol nodes.
func (n *Node) Literal() (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case KindString, KindSymbol:
		return n.Value, true
	}
	return "", false
}

// LeadingLiterals returns the values of the maximal run of leading
// string/symbol arguments.
func (n *Node) LeadingLiterals() []string {
	var out []string
	for _, arg := range n.Args {
		v, ok := arg.Literal()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

// Walk visits n and every node reachable through Args and Body in source
// order. Visiting stops early when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, arg := range n.Args {
		if !arg.Walk(fn) {
			return false
		}
	}
	for _, stmt := range n.Body {
		if !stmt.Walk(fn) {
			return false
		}
	}
	return true
}

// Comment is a standalone comment with its location, collected separately
// from the statement stream.
type Comment struct {
	Text      string // comment text including the leading marker
	StartByte int
	EndByte   int
	Line      int
}

// Document is one parsed source document: the ordered top-level statement
// stream plus every comment, over the original text.
type Document struct {
	Source     string
	Statements []*Node
	Comments   []Comment
}
