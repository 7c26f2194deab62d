package section

import "remold/internal/ast"

// CallClassifier accepts a plain call statement with a given method name
// whose first argument is a literal. A call lacking the argument, or with
// a non-literal argument, is unclassified rather than an error.
type CallClassifier struct {
	Method string
	Type   Type
}

func (c CallClassifier) Classify(n *ast.Node) (TypedSection, bool) {
	if n == nil || n.Kind != ast.KindCall || n.Receiver != "" || n.Name != c.Method {
		return TypedSection{}, false
	}
	name, ok := n.FirstLiteral()
	if !ok {
		return TypedSection{}, false
	}
	return TypedSection{Type: c.Type, Name: name, Node: n}, true
}

// BlockClassifier accepts a call statement that carries an attached block.
// Absence of the block yields unclassified. Metadata collection walks the
// nested body and records the literal names of nested declarations whose
// method name is in Collect.
type BlockClassifier struct {
	Method  string
	Type    Type
	Collect map[string]bool
}

func (c BlockClassifier) Classify(n *ast.Node) (TypedSection, bool) {
	if n == nil || n.Kind != ast.KindCall || n.Receiver != "" || n.Name != c.Method || n.Body == nil {
		return TypedSection{}, false
	}
	name, _ := n.FirstLiteral()

	var meta []MetadataEntry
	for _, stmt := range n.Body {
		stmt.Walk(func(inner *ast.Node) bool {
			if inner.Kind == ast.KindCall && c.Collect[inner.Name] {
				if lit, ok := inner.FirstLiteral(); ok {
					meta = append(meta, MetadataEntry{Key: inner.Name, Value: lit})
				}
			}
			return true
		})
	}
	return TypedSection{Type: c.Type, Name: name, Node: n, Metadata: meta}, true
}

// AssignmentClassifier accepts receiver.field = value statements.
type AssignmentClassifier struct {
	Type Type
}

func (c AssignmentClassifier) Classify(n *ast.Node) (TypedSection, bool) {
	if n == nil || n.Kind != ast.KindAssignment || n.Receiver == "" || n.Name == "" {
		return TypedSection{}, false
	}
	return TypedSection{Type: c.Type, Name: n.Receiver + "." + n.Name, Node: n}, true
}
