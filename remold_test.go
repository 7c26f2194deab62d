package remold

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remold/internal/section"
)

func TestMergeDependencyManifest_TemplateEntriesIntegrated(t *testing.T) {
	out := MergeDependencyManifest(
		"source \"https://rubygems.org\"\ngem \"a\"\ngem \"b\"\n",
		"gem \"a\"\n")

	assert.Equal(t, 1, strings.Count(out, "source \"https://rubygems.org\""))
	assert.Equal(t, 1, strings.Count(out, "gem \"a\""))
	assert.Equal(t, 1, strings.Count(out, "gem \"b\""))
}

func TestMergeDependencyManifest_HandEditsSurvive(t *testing.T) {
	dest := "# pinned until upstream fix\ngem \"z\", \"= 0.9.1\"\ngem \"a\"\n"
	out := MergeDependencyManifest("gem \"a\"\n", dest)

	assert.Contains(t, out, "# pinned until upstream fix")
	assert.Contains(t, out, "gem \"z\", \"= 0.9.1\"")
}

func TestRemoveNamedDependency_SelfReference(t *testing.T) {
	out := RemoveNamedDependency("gem \"x\"\ngem \"y\"\n", "x")
	assert.Equal(t, "gem \"y\"\n", out)
}

func TestRemoveBuiltinGitSource(t *testing.T) {
	text := "git_source(:github) do |repo|\n  \"https://github.com/#{repo}.git\"\nend\ngem \"rake\"\n"
	assert.Equal(t, "gem \"rake\"\n", RemoveBuiltinGitSource(text))
}

func TestMergeRevisionHistory_CanonicalOrder(t *testing.T) {
	template := "# Changelog\n\n## [Unreleased]\n"
	dest := "## [Unreleased]\n\n### Added\n\n- A\n\n### Fixed\n\n- B\n\n## [1.0.0] - 2024-01-01\n\n- released\n"

	out := MergeRevisionHistory(template, dest)

	wantOrder := []string{"### Added", "- A", "### Changed", "### Deprecated", "### Removed", "### Fixed", "- B", "### Security", "## [1.0.0] - 2024-01-01"}
	last := -1
	for _, want := range wantOrder {
		idx := strings.Index(out, want)
		require.GreaterOrEqual(t, idx, 0, want)
		require.Greater(t, idx, last, want)
		last = idx
	}
}

func TestClassifyAll_BlockThenTrailingStatements(t *testing.T) {
	nodes, err := ParseManifest("group :test do\n  gem \"rspec\"\nend\nputs \"done\"\nx = 1\n")
	require.NoError(t, err)

	secs := ClassifyAll(nodes)
	require.Len(t, secs, 2)
	assert.Equal(t, section.TypeGroup, secs[0].Type)
	assert.Equal(t, section.TypeUnclassified, secs[1].Type)
	assert.Len(t, secs[1].Nodes, 2)
}

func TestMergeProseDocument_HandProseSurvivesHeadingMatch(t *testing.T) {
	out := MergeProseDocument(
		"## Getting Started\n\n## Contributing\n",
		"## getting started\n\nHand-written steps.\n")

	assert.Contains(t, out, "## Getting Started")
	assert.Contains(t, out, "Hand-written steps.")
	assert.Contains(t, out, "## Contributing")
}

func TestMergeTaskFile_NovelTasksAppended(t *testing.T) {
	out := MergeTaskFile(
		"require \"rake/testtask\"\ntask :lint\n",
		"task :bench do\n  puts \"bench\"\nend\n")

	assert.Contains(t, out, "task :bench")
	assert.Contains(t, out, "require \"rake/testtask\"")
	assert.Contains(t, out, "task :lint")
}
