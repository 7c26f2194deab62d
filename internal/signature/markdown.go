package signature

import (
	"strconv"
	"strings"

	"remold/internal/ast"
)

// Markdown computes signatures for prose document blocks.
func Markdown(n *ast.Node) Signature {
	if n == nil {
		return None()
	}
	switch n.Kind {
	case ast.KindHeading:
		return Of("header", strconv.Itoa(n.Level), normalizeHeading(n.Value))
	case ast.KindTable:
		return Of("table", tableHeaderKey(n.Value))
	case ast.KindCodeFence:
		return Of("code_block", n.Name)
	case ast.KindHTMLBlock:
		lower := strings.ToLower(n.Source)
		if n.Name == "comment" && (strings.Contains(lower, "freeze") || strings.Contains(lower, "unfreeze")) {
			return Of("html_comment", "freeze_marker")
		}
		return Of("html_block", truncate(n.Source, 50))
	case ast.KindLink:
		return Of("link", n.Value)
	case ast.KindImage:
		return Of("image", n.Value)
	case ast.KindLinkDefinition:
		return Of("link_definition", n.Name)
	}
	return None()
}

// normalizeHeading lowercases the heading text, strips every character
// outside [a-z0-9 \[\]] and collapses whitespace runs, so decoration and
// spacing never split a match.
func normalizeHeading(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '[', r == ']':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tableHeaderKey joins the first row's cell text with a delimiter.
func tableHeaderKey(headerRow string) string {
	cells := strings.Split(strings.Trim(strings.TrimSpace(headerRow), "|"), "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return strings.Join(cells, "|")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
