package ast

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"
)

// ParseRuby parses manifest DSL text (Gemfile, gemspec, Rakefile, Appraisals
// and friends are all Ruby-shaped) into the top-level statement stream.
// Comments are collected separately and same-line trailing comments are
// additionally attached to their statement.
func ParseRuby(text string) (*Document, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(ruby.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("failed to parse manifest: no tree produced")
	}

	doc := &Document{Source: text}
	src := []byte(text)

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "comment" {
			doc.Comments = append(doc.Comments, Comment{
				Text:      child.Content(src),
				StartByte: int(child.StartByte()),
				EndByte:   int(child.EndByte()),
				Line:      int(child.StartPoint().Row),
			})
			continue
		}
		doc.Statements = append(doc.Statements, convertRuby(child, src))
	}

	attachTrailingComments(doc)
	return doc, nil
}

// convertRuby maps one tree-sitter node onto the closed Node kind set.
// Shapes the merge engine has no business understanding come back as
// KindUnknown with their source slice intact.
func convertRuby(n *sitter.Node, src []byte) *Node {
	out := &Node{
		Kind:      KindUnknown,
		Source:    n.Content(src),
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
		Start:     Position{Line: int(n.StartPoint().Row), Column: int(n.StartPoint().Column)},
		End:       Position{Line: int(n.EndPoint().Row), Column: int(n.EndPoint().Column)},
	}

	switch n.Type() {
	case "call", "command", "method_call":
		out.Kind = KindCall
		if method := n.ChildByFieldName("method"); method != nil {
			out.Name = method.Content(src)
		}
		if recv := n.ChildByFieldName("receiver"); recv != nil {
			out.Receiver = flattenReceiver(recv, src)
		}
		if args := n.ChildByFieldName("arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				out.Args = append(out.Args, convertArgument(args.NamedChild(i), src))
			}
		}
		if block := n.ChildByFieldName("block"); block != nil {
			out.Body = convertBlockBody(block, src)
		}

	case "assignment", "operator_assignment":
		left := n.ChildByFieldName("left")
		out.Kind = KindAssignment
		if left != nil && left.Type() == "call" {
			if method := left.ChildByFieldName("method"); method != nil {
				out.Name = method.Content(src)
			}
			if recv := left.ChildByFieldName("receiver"); recv != nil {
				out.Receiver = flattenReceiver(recv, src)
			}
		}
		if right := n.ChildByFieldName("right"); right != nil {
			out.Args = append(out.Args, convertArgument(right, src))
		}

	case "if", "unless", "case", "while", "until", "for", "begin":
		out.Kind = KindConditional
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "comment" {
				continue
			}
			out.Body = append(out.Body, convertRuby(child, src))
		}
	}

	return out
}

// convertArgument converts a call argument, caring only about the literal
// shapes signature extraction needs.
func convertArgument(n *sitter.Node, src []byte) *Node {
	out := &Node{
		Kind:      KindUnknown,
		Source:    n.Content(src),
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
		Start:     Position{Line: int(n.StartPoint().Row), Column: int(n.StartPoint().Column)},
		End:       Position{Line: int(n.EndPoint().Row), Column: int(n.EndPoint().Column)},
	}

	switch n.Type() {
	case "string":
		out.Kind = KindString
		out.Value = stringContent(n, src)
	case "simple_symbol":
		out.Kind = KindSymbol
		out.Value = strings.TrimPrefix(n.Content(src), ":")
	case "symbol":
		out.Kind = KindSymbol
		out.Value = strings.TrimPrefix(strings.Trim(n.Content(src), `"'`), ":")
	case "call", "command", "method_call":
		return convertRuby(n, src)
	}

	return out
}

// stringContent concatenates the content fragments of a string literal,
// dropping the delimiters so quote style never matters.
func stringContent(n *sitter.Node, src []byte) string {
	var b strings.Builder
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "string_content", "escape_sequence":
			b.WriteString(child.Content(src))
		}
	}
	return b.String()
}

// convertBlockBody unwraps a do/{} block node into converted statements,
// skipping block parameters.
func convertBlockBody(block *sitter.Node, src []byte) []*Node {
	body := []*Node{}
	for i := 0; i < int(block.NamedChildCount()); i++ {
		child := block.NamedChild(i)
		switch child.Type() {
		case "block_parameters", "comment":
			continue
		case "body_statement", "block_body":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				stmt := child.NamedChild(j)
				if stmt.Type() == "comment" {
					continue
				}
				body = append(body, convertRuby(stmt, src))
			}
		default:
			body = append(body, convertRuby(child, src))
		}
	}
	return body
}

// flattenReceiver resolves a qualified receiver chain to a flat path:
// identifiers and constants verbatim, A::B via scope resolution. Anything
// else is unresolvable and yields "".
func flattenReceiver(n *sitter.Node, src []byte) string {
	switch n.Type() {
	case "identifier", "constant", "self", "instance_variable", "class_variable", "global_variable":
		return n.Content(src)
	case "scope_resolution":
		scope := n.ChildByFieldName("scope")
		name := n.ChildByFieldName("name")
		if name == nil {
			return ""
		}
		if scope == nil {
			return name.Content(src)
		}
		left := flattenReceiver(scope, src)
		if left == "" {
			return ""
		}
		return left + "::" + name.Content(src)
	case "call", "method_call":
		recv := n.ChildByFieldName("receiver")
		method := n.ChildByFieldName("method")
		if recv == nil || method == nil {
			return ""
		}
		left := flattenReceiver(recv, src)
		if left == "" {
			return ""
		}
		return left + "." + method.Content(src)
	}
	return ""
}

// attachTrailingComments links each comment that sits on the closing line
// of a statement, after its end, to that statement.
func attachTrailingComments(doc *Document) {
	for _, c := range doc.Comments {
		for _, stmt := range doc.Statements {
			if c.Line == stmt.End.Line && c.StartByte >= stmt.EndByte {
				stmt.Comment = c.Text
				stmt.CommentEnd = c.EndByte
				break
			}
		}
	}
}
