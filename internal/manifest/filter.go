package manifest

import (
	"strings"

	"remold/internal/ast"
	"remold/internal/diag"
)

// FilterToScope reduces a document to the statements eligible for merging:
// top-level, allow-listed, and not nested inside a conditional or other
// control construct. Each retained statement is re-emitted from its exact
// source slice (trailing whitespace trimmed) followed by its same-line
// comment, joined by single newlines. One trailing blank line is appended
// as a merge hint so downstream assembly always has a separator after the
// last filtered statement.
//
// Any parse failure is reported and the original text comes back unchanged.
func FilterToScope(r Recipe, text string, rep diag.Reporter) string {
	doc, err := ast.ParseRuby(text)
	if err != nil {
		rep.Warnf("scope filter: leaving %s input unchanged: %v", r.Kind, err)
		return text
	}

	var parts []string
	for _, stmt := range doc.Statements {
		if !r.inScope(stmt) {
			continue
		}
		part := strings.TrimRight(stmt.Source, " \t")
		if stmt.Comment != "" {
			part += " " + stmt.Comment
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n") + "\n\n"
}

// inScope applies the recipe's allow-list to one top-level statement.
func (r Recipe) inScope(stmt *ast.Node) bool {
	switch stmt.Kind {
	case ast.KindAssignment:
		return r.allowAssignments && stmt.Receiver != ""

	case ast.KindCall:
		if stmt.Receiver != "" {
			// Receiver calls stay out of scope except the spec block.
			return r.allowSpecBlock && stmt.Name == "new" && stmt.HasBlock()
		}
		rule, ok := r.allow[stmt.Name]
		if !ok {
			return false
		}
		if stmt.HasBlock() && !rule.Block {
			return false
		}
		return true
	}
	// Conditionals and unrecognized statements never leak into the
	// destination's top level.
	return false
}
