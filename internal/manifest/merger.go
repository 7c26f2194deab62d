package manifest

import (
	"strings"

	"remold/internal/ast"
	"remold/internal/diag"
	"remold/internal/merge"
	"remold/internal/section"
)

// Merge reconciles a generated template manifest against the destination's
// hand-edited copy. The template is filtered to scope, the destination is
// stripped of redundant built-in declarations, and the two statement
// streams are merged structurally with template preference and append-only
// insertion of template-only entries.
//
// Any internal failure fails soft: the destination text comes back
// unchanged and the reporter hears about it.
func Merge(r Recipe, m merge.Merger, templateText, destText string, rep diag.Reporter) string {
	filtered := FilterToScope(r, templateText, rep)

	processed := destText
	if r.stripGitSource {
		processed = RemoveBuiltinGitSource(processed, rep)
	}

	tdoc, err := ast.ParseRuby(filtered)
	if err != nil {
		rep.Warnf("merge %s: template rejected, keeping destination: %v", r.Kind, err)
		return destText
	}
	ddoc, err := ast.ParseRuby(processed)
	if err != nil {
		rep.Warnf("merge %s: destination rejected, keeping destination: %v", r.Kind, err)
		return destText
	}

	secs := section.ClassifyAll(r.Classifiers, ddoc.Statements)
	rep.Debugf("merge %s: destination has %d sections", r.Kind, len(secs))

	tmpl := templateEntries(tdoc)
	dst, tail := destEntries(ddoc)

	merged, err := m.Merge(tmpl, dst, r.Signature, merge.Options{
		Preference:      merge.PreferTemplate,
		InsertUnmatched: true,
	})
	if err != nil {
		rep.Errorf("merge %s: merge capability failed, keeping destination: %v", r.Kind, err)
		return destText
	}

	out := assemble(merged, tail)
	if out == "" {
		return destText
	}
	rep.Debugf("merge %s preview:\n%s", r.Kind, merge.Preview(destText, out))
	return out
}

// templateEntries turns the filtered template stream into merge entries.
func templateEntries(doc *ast.Document) []merge.Entry {
	entries := make([]merge.Entry, 0, len(doc.Statements))
	for _, stmt := range doc.Statements {
		text := strings.TrimRight(stmt.Source, " \t")
		if stmt.Comment != "" {
			text += " " + stmt.Comment
		}
		entries = append(entries, merge.Entry{Node: stmt, Text: text})
	}
	return entries
}

// destEntries segments the destination text around its statements so that
// every byte is owned by exactly one entry lead, one entry text, or the
// tail. Kept entries therefore reproduce their bytes exactly.
func destEntries(doc *ast.Document) ([]merge.Entry, string) {
	entries := make([]merge.Entry, 0, len(doc.Statements))
	pos := 0
	for _, stmt := range doc.Statements {
		end := stmt.EndByte
		if stmt.CommentEnd > end {
			end = stmt.CommentEnd
		}
		if stmt.StartByte < pos || end > len(doc.Source) {
			continue
		}
		entries = append(entries, merge.Entry{
			Node: stmt,
			Lead: doc.Source[pos:stmt.StartByte],
			Text: doc.Source[stmt.StartByte:end],
		})
		pos = end
	}
	return entries, doc.Source[pos:]
}

// assemble flattens the merged stream back into text. Destination entries
// keep their leads; inserted template entries land after the destination
// content, separated by one blank line.
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
		out += strings.Join(inserted, "\n")
	}
	if out == "" {
		return ""
	}
	return out + "\n"
}
