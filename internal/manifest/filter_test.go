package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"remold/internal/diag"
)

func TestFilterToScope_AllowListedStatementsOnly(t *testing.T) {
	text := "source \"https://rubygems.org\"\n" +
		"gem \"rake\"\n" +
		"puts \"hello\"\n" +
		"gem \"rspec\"\n"

	out := FilterToScope(RecipeFor(KindGemfile), text, diag.Nop())
	assert.Equal(t, "source \"https://rubygems.org\"\ngem \"rake\"\ngem \"rspec\"\n\n", out)
}

func TestFilterToScope_ConditionalNestedDeclarationsExcluded(t *testing.T) {
	text := "gem \"rake\"\n" +
		"if ENV[\"LOCAL\"]\n  gem \"local_dep\", path: \"../local\"\nend\n" +
		"gem \"rspec\"\n"

	out := FilterToScope(RecipeFor(KindGemfile), text, diag.Nop())
	assert.NotContains(t, out, "local_dep")
	assert.Contains(t, out, "gem \"rake\"")
	assert.Contains(t, out, "gem \"rspec\"")
}

func TestFilterToScope_GitSourceBlockSurvives(t *testing.T) {
	text := "git_source(:gitlab) do |repo|\n  \"https://gitlab.test/#{repo}.git\"\nend\n"

	out := FilterToScope(RecipeFor(KindGemfile), text, diag.Nop())
	assert.Contains(t, out, "git_source(:gitlab)")
	assert.Contains(t, out, "end")
}

func TestFilterToScope_KeepsSameLineComment(t *testing.T) {
	out := FilterToScope(RecipeFor(KindGemfile), "gem \"rake\"   # build tool\n", diag.Nop())
	assert.Equal(t, "gem \"rake\" # build tool\n\n", out)
}

func TestFilterToScope_TrailingBlankLineHint(t *testing.T) {
	out := FilterToScope(RecipeFor(KindGemfile), "gem \"rake\"\n", diag.Nop())
	assert.True(t, strings.HasSuffix(out, "\n\n"), "filtered output ends with a blank separator line")
}

func TestFilterToScope_EmptyScope(t *testing.T) {
	out := FilterToScope(RecipeFor(KindGemfile), "puts \"hello\"\n", diag.Nop())
	assert.Empty(t, out)
}

func TestFilterToScope_GemspecAssignments(t *testing.T) {
	text := "require_relative \"lib/remold/version\"\n" +
		"spec = Gem::Specification.new\n" +
		"spec.name = \"remold\"\n" +
		"spec.version = \"1.0.0\"\n"

	out := FilterToScope(RecipeFor(KindGemspec), text, diag.Nop())
	assert.Contains(t, out, "require_relative \"lib/remold/version\"")
	assert.Contains(t, out, "spec.name = \"remold\"")
	assert.Contains(t, out, "spec.version = \"1.0.0\"")
}

func TestFilterToScope_RakefileTasks(t *testing.T) {
	text := "require \"rake/testtask\"\n" +
		"desc \"Run the tests\"\n" +
		"task :default => :test\n" +
		"at_exit { puts \"bye\" }\n"

	out := FilterToScope(RecipeFor(KindRakefile), text, diag.Nop())
	assert.Contains(t, out, "require \"rake/testtask\"")
	assert.Contains(t, out, "desc \"Run the tests\"")
	assert.Contains(t, out, "task :default => :test")
	assert.NotContains(t, out, "at_exit")
}
