// Package prose reconciles free-form markdown documents. Blocks are
// matched by their markdown signatures (headings by level and normalized
// text, tables by header row, fenced code by language, link definitions
// by label); the template wins on a match, destination-only blocks stay
// in place, and template-only blocks are appended. Paragraphs and list
// items carry opaque identity and are never rewritten.
package prose

import (
	"strings"

	"remold/internal/ast"
	"remold/internal/diag"
	"remold/internal/merge"
	"remold/internal/signature"
)

// Merge reconciles a template markdown document against the destination's
// hand-edited copy. Any merger failure returns destText unchanged.
func Merge(m merge.Merger, templateText, destText string, rep diag.Reporter) string {
	tmpl := templateEntries(templateText)
	dst, tail := destEntries(destText)

	merged, err := m.Merge(tmpl, dst, signature.Markdown, merge.Options{
		Preference:      merge.PreferTemplate,
		InsertUnmatched: true,
	})
	if err != nil {
		rep.Errorf("prose merge: merge capability failed, keeping destination: %v", err)
		return destText
	}

	out := assemble(merged, tail)
	if out == "" {
		return destText
	}
	rep.Debugf("prose merge preview:\n%s", merge.Preview(destText, out))
	return out
}

func templateEntries(text string) []merge.Entry {
	nodes := ast.ScanMarkdown(text)
	entries := make([]merge.Entry, 0, len(nodes))
	for _, n := range nodes {
		entries = append(entries, merge.Entry{Node: n, Text: n.Source})
	}
	return entries
}

// destEntries segments the destination text around its blocks so every
// byte is owned by exactly one entry lead, one entry text, or the tail.
func destEntries(text string) ([]merge.Entry, string) {
	nodes := ast.ScanMarkdown(text)
	entries := make([]merge.Entry, 0, len(nodes))
	pos := 0
	for _, n := range nodes {
		if n.StartByte < pos || n.EndByte > len(text) {
			continue
		}
		entries = append(entries, merge.Entry{
			Node: n,
			Lead: text[pos:n.StartByte],
			Text: text[n.StartByte:n.EndByte],
		})
		pos = n.EndByte
	}
	return entries, text[pos:]
}

// assemble flattens the merged stream back into text. Inserted template
// blocks land after the destination content, separated by blank lines.
func assemble(merged []merge.MergedEntry, tail string) string {
	var b strings.Builder
	var inserted []string
	for _, me := range merged {
		switch me.Provenance {
		case merge.Inserted:
			inserted = append(inserted, me.Text)
		case merge.Removed:
			b.WriteString(me.Lead)
		default:
			b.WriteString(me.Lead)
			b.WriteString(me.Text)
		}
	}
	b.WriteString(tail)

	out := strings.TrimRight(b.String(), " \t\n")
	if len(inserted) > 0 {
		if out != "" {
			out += "\n\n"
		}
		out += strings.Join(inserted, "\n\n")
	}
	if out == "" {
		return ""
	}
	return out + "\n"
}
