package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remold/internal/ast"
	"remold/internal/signature"
)

// sigByName keys every entry by its node Name; empty names are opaque.
func sigByName(n *ast.Node) signature.Signature {
	if n == nil || n.Name == "" {
		return signature.None()
	}
	return signature.Of("entry", n.Name)
}

func entry(name, text string) Entry {
	return Entry{Node: &ast.Node{Kind: ast.KindCall, Name: name}, Text: text}
}

func texts(merged []MergedEntry) []string {
	var out []string
	for _, m := range merged {
		if m.Provenance == Removed {
			continue
		}
		out = append(out, m.Text)
	}
	return out
}

func TestStructural_DestinationOrderPreserved(t *testing.T) {
	m := NewStructural()
	template := []Entry{entry("a", "a v2"), entry("b", "b v2")}
	dest := []Entry{entry("b", "b v2"), entry("x", "x"), entry("a", "a v2")}

	merged, err := m.Merge(template, dest, sigByName, Options{Preference: PreferTemplate, InsertUnmatched: true})
	require.NoError(t, err)

	want := []string{"b v2", "x", "a v2"}
	if diff := cmp.Diff(want, texts(merged)); diff != "" {
		t.Fatalf("merged texts mismatch (-want +got):\n%s", diff)
	}
}

func TestStructural_TemplateWinsOnCollision(t *testing.T) {
	m := NewStructural()
	template := []Entry{entry("a", "a from template")}
	dest := []Entry{entry("a", "a from dest")}

	merged, err := m.Merge(template, dest, sigByName, Options{Preference: PreferTemplate})
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, Replaced, merged[0].Provenance)
	assert.Equal(t, "a from template", merged[0].Text)
}

func TestStructural_DestinationPreferenceKeepsDestText(t *testing.T) {
	m := NewStructural()
	template := []Entry{entry("a", "a from template")}
	dest := []Entry{entry("a", "a from dest")}

	merged, err := m.Merge(template, dest, sigByName, Options{Preference: PreferDestination})
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, Kept, merged[0].Provenance)
	assert.Equal(t, "a from dest", merged[0].Text)
}

func TestStructural_UnmatchedTemplateAppendsInOrder(t *testing.T) {
	m := NewStructural()
	template := []Entry{entry("n1", "n1"), entry("a", "a"), entry("n2", "n2")}
	dest := []Entry{entry("a", "a")}

	merged, err := m.Merge(template, dest, sigByName, Options{Preference: PreferTemplate, InsertUnmatched: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "n1", "n2"}, texts(merged))
	assert.Equal(t, Inserted, merged[1].Provenance)
	assert.Equal(t, Inserted, merged[2].Provenance)
}

func TestStructural_NoDuplicateSignaturesSurvive(t *testing.T) {
	m := NewStructural()
	template := []Entry{entry("a", "a")}
	dest := []Entry{entry("a", "a"), entry("a", "a again")}

	merged, err := m.Merge(template, dest, sigByName, Options{Preference: PreferTemplate, InsertUnmatched: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, texts(merged))
	require.Len(t, merged, 2)
	assert.Equal(t, Removed, merged[1].Provenance)
}

func TestStructural_OpaqueEntriesNeverMatch(t *testing.T) {
	m := NewStructural()
	dest := []Entry{entry("", "mystery one"), entry("", "mystery two")}

	merged, err := m.Merge(nil, dest, sigByName, Options{Preference: PreferTemplate, InsertUnmatched: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"mystery one", "mystery two"}, texts(merged))
}

func TestStructural_OpaqueTemplateEntryInsertedOnlyWhileAbsent(t *testing.T) {
	m := NewStructural()
	template := []Entry{entry("", "eval_gemfile File.expand_path(\"style.gemfile\", __dir__)")}

	merged, err := m.Merge(template, nil, sigByName, Options{Preference: PreferTemplate, InsertUnmatched: true})
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, Inserted, merged[0].Provenance)

	// The destination now holds the exact text; a second pass adds nothing.
	dest := []Entry{entry("", merged[0].Text)}
	merged, err = m.Merge(template, dest, sigByName, Options{Preference: PreferTemplate, InsertUnmatched: true})
	require.NoError(t, err)
	assert.Equal(t, []string{template[0].Text}, texts(merged))
}

func TestStructural_InsertDisabledDropsNovelEntries(t *testing.T) {
	m := NewStructural()
	template := []Entry{entry("novel", "novel")}
	dest := []Entry{entry("a", "a")}

	merged, err := m.Merge(template, dest, sigByName, Options{Preference: PreferTemplate})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, texts(merged))
}

func TestPreview_MarksChangedLines(t *testing.T) {
	out := Preview("gem \"a\"\ngem \"b\"\n", "gem \"a\"\ngem \"c\"\n")
	assert.Contains(t, out, "- gem \"b\"")
	assert.Contains(t, out, "+ gem \"c\"")
	assert.NotContains(t, out, "gem \"a\"")
}
