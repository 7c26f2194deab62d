package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remold/internal/diag"
)

const templateDoc = `# Changelog

All notable changes to this project are documented here.

## [Unreleased]

### Added

### Changed

### Deprecated

### Removed

### Fixed

### Security
`

func mergeHistory(t *testing.T, template, dest string) string {
	t.Helper()
	return Merge(template, dest, diag.Nop())
}

func TestMerge_BlankDestinationReturnsTemplate(t *testing.T) {
	assert.Equal(t, templateDoc, mergeHistory(t, templateDoc, ""))
	assert.Equal(t, templateDoc, mergeHistory(t, templateDoc, "  \n\n"))
}

func TestMerge_CanonicalSubheadingsAlwaysPresentInOrder(t *testing.T) {
	dest := "## [Unreleased]\n\n### Added\n\n- A\n\n### Fixed\n\n- B\n\n## [1.0.0] - 2024-01-01\n\n- released\n"
	out := mergeHistory(t, templateDoc, dest)

	last := -1
	for _, name := range CanonicalSubheadings {
		idx := strings.Index(out, "### "+name)
		require.GreaterOrEqual(t, idx, 0, name)
		assert.Greater(t, idx, last, "subheadings keep canonical order")
		last = idx
	}

	added := strings.Index(out, "### Added")
	changed := strings.Index(out, "### Changed")
	fixed := strings.Index(out, "### Fixed")
	security := strings.Index(out, "### Security")

	a := strings.Index(out, "- A")
	b := strings.Index(out, "- B")
	assert.True(t, added < a && a < changed, "item A lands under Added")
	assert.True(t, fixed < b && b < security, "item B lands under Fixed")
}

func TestMerge_HistoryTailPreservedVerbatim(t *testing.T) {
	dest := "## [Unreleased]\n\n### Added\n\n- A\n\n## [1.0.0] - 2024-01-01\n\n- released thing\n\n[1.0.0]: https://example.test/v1\n"
	out := mergeHistory(t, templateDoc, dest)

	assert.Contains(t, out, "## [1.0.0] - 2024-01-01")
	assert.Contains(t, out, "- released thing")
	assert.Contains(t, out, "[1.0.0]: https://example.test/v1")
}

func TestMerge_TemplateHeaderWins(t *testing.T) {
	dest := "# Old Title\n\nStale intro.\n\n## [Unreleased]\n\n### Added\n\n- A\n"
	out := mergeHistory(t, templateDoc, dest)

	assert.True(t, strings.HasPrefix(out, "# Changelog"))
	assert.NotContains(t, out, "Old Title")
	assert.NotContains(t, out, "Stale intro")
}

func TestMerge_FencedBlockStaysInsideItem(t *testing.T) {
	dest := "## [Unreleased]\n\n### Added\n\n- New config syntax:\n\n  ```yaml\n  kinds:\n    Gemfile: gemfile\n\n  ### not a heading\n  ```\n\n- Second item\n\n## [1.0.0] - 2024-01-01\n"
	out := mergeHistory(t, templateDoc, dest)

	assert.Contains(t, out, "```yaml")
	assert.Contains(t, out, "### not a heading")
	added := strings.Index(out, "### Added")
	changed := strings.Index(out, "### Changed")
	fenced := strings.Index(out, "### not a heading")
	second := strings.Index(out, "- Second item")
	assert.True(t, added < fenced && fenced < second && second < changed,
		"the fenced content and both items stay under Added as one run")
}

func TestMerge_NestedBulletsStayWithTheirItem(t *testing.T) {
	dest := "## [Unreleased]\n\n### Changed\n\n- Reworked filters:\n  - faster scope scan\n  - fewer allocations\n- Unrelated change\n"
	out := mergeHistory(t, templateDoc, dest)

	reworked := strings.Index(out, "- Reworked filters:")
	nested := strings.Index(out, "  - faster scope scan")
	unrelated := strings.Index(out, "- Unrelated change")
	require.True(t, reworked >= 0 && nested >= 0 && unrelated >= 0)
	assert.True(t, reworked < nested && nested < unrelated)
}

func TestMerge_LinkDefinitionsNeverSwallowed(t *testing.T) {
	// No heading follows Unreleased; the trailing reference block still
	// bounds the section.
	dest := "## [Unreleased]\n\n### Added\n\n- A\n\n[unreleased]: https://example.test/compare\n[docs]: https://example.test/docs\n"
	out := mergeHistory(t, templateDoc, dest)

	assert.Contains(t, out, "[unreleased]: https://example.test/compare")
	assert.Contains(t, out, "[docs]: https://example.test/docs")
	security := strings.Index(out, "### Security")
	refs := strings.Index(out, "[unreleased]:")
	assert.Greater(t, refs, security, "reference block lands after the canonical section")
}

func TestMerge_DestinationWithoutUnreleasedDegrades(t *testing.T) {
	dest := "# Project\n\n## [0.9.0] - 2023-06-01\n\n- old release\n"
	out := mergeHistory(t, templateDoc, dest)

	assert.Contains(t, out, "## [Unreleased]")
	assert.Contains(t, out, "## [0.9.0] - 2023-06-01")
	assert.Contains(t, out, "- old release")
	for _, name := range CanonicalSubheadings {
		assert.Contains(t, out, "### "+name)
	}
}

func TestMerge_NonCanonicalSubheadingDropped(t *testing.T) {
	dest := "## [Unreleased]\n\n### Added\n\n- A\n\n### Internal\n\n- hidden work\n"
	out := mergeHistory(t, templateDoc, dest)

	assert.NotContains(t, out, "### Internal")
	assert.NotContains(t, out, "- hidden work")
	assert.Contains(t, out, "- A")
}

func TestMerge_VersionHeadingWhitespaceCollapsed(t *testing.T) {
	dest := "## [Unreleased]\n\n## [1.0.0]   -    2024-01-01\n\n- released\n"
	out := mergeHistory(t, templateDoc, dest)
	assert.Contains(t, out, "## [1.0.0] - 2024-01-01")
}

func TestMerge_SingleTrailingNewline(t *testing.T) {
	dest := "## [Unreleased]\n\n### Added\n\n- A\n\n\n"
	out := mergeHistory(t, templateDoc, dest)
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.False(t, strings.HasSuffix(out, "\n\n"))
}

func TestMerge_SubheadingCaseInsensitive(t *testing.T) {
	dest := "## [Unreleased]\n\n### added\n\n- A\n"
	out := mergeHistory(t, templateDoc, dest)
	assert.Contains(t, out, "### Added\n\n- A")
}
