package manifest

import (
	"sort"
	"strings"

	"remold/internal/ast"
	"remold/internal/diag"
)

// RemoveNamedDependency removes every top-level dependency declaration
// whose literal first argument equals name. Declarations with non-literal
// arguments are left untouched. Used to keep a generated manifest from
// declaring a dependency on itself.
func RemoveNamedDependency(text, name string, rep diag.Reporter) string {
	return removeStatements(text, rep, func(stmt *ast.Node) bool {
		if stmt.Kind != ast.KindCall || stmt.Receiver != "" || stmt.Name != "gem" {
			return false
		}
		lit, ok := stmt.FirstLiteral()
		return ok && lit == name
	})
}

// RemoveBuiltinGitSource removes a top-level git_source declaration for
// the built-in github provider; bundler supplies that source implicitly,
// so an explicit redeclaration is redundant.
func RemoveBuiltinGitSource(text string, rep diag.Reporter) string {
	return removeStatements(text, rep, func(stmt *ast.Node) bool {
		if stmt.Kind != ast.KindCall || stmt.Receiver != "" || stmt.Name != "git_source" {
			return false
		}
		lit, ok := stmt.FirstLiteral()
		if !ok || len(stmt.Args) == 0 || stmt.Args[0].Kind != ast.KindSymbol {
			return false
		}
		return lit == "github"
	})
}

// removeStatements cuts matching statements out of the text by their exact
// source slices, widened to whole lines so no blank husk remains. This is
// a textual removal, not a reserialization: everything else keeps its
// bytes. Parse failures fail soft.
func removeStatements(text string, rep diag.Reporter, match func(*ast.Node) bool) string {
	doc, err := ast.ParseRuby(text)
	if err != nil {
		rep.Warnf("strip: leaving input unchanged: %v", err)
		return text
	}

	type span struct{ start, end int }
	var spans []span
	for _, stmt := range doc.Statements {
		if match(stmt) {
			spans = append(spans, statementSpan(text, stmt))
		}
	}
	if len(spans) == 0 {
		return text
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	pos := 0
	for _, sp := range spans {
		if sp.start < pos {
			continue
		}
		b.WriteString(text[pos:sp.start])
		pos = sp.end
	}
	b.WriteString(text[pos:])
	return b.String()
}

// statementSpan widens a statement's byte range to cover its whole lines:
// leading indentation when nothing else precedes it on the line, the
// same-line trailing comment, and the line's newline.
func statementSpan(text string, stmt *ast.Node) (span struct{ start, end int }) {
	start, end := stmt.StartByte, stmt.EndByte
	if stmt.CommentEnd > end {
		end = stmt.CommentEnd
	}

	lineStart := start
	for lineStart > 0 && text[lineStart-1] != '\n' {
		lineStart--
	}
	if strings.TrimSpace(text[lineStart:start]) == "" {
		start = lineStart
	}

	for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	if end < len(text) && text[end] == '\n' {
		end++
	}

	span.start, span.end = start, end
	return span
}
