package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"remold/internal/ast"
)

func call(name string, args ...*ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindCall, Name: name, Args: args}
}

func str(v string) *ast.Node {
	return &ast.Node{Kind: ast.KindString, Value: v}
}

func sym(v string) *ast.Node {
	return &ast.Node{Kind: ast.KindSymbol, Value: v}
}

func TestGemfile_NamedEntry(t *testing.T) {
	sig := Gemfile(call("gem", str("rake")))
	assert.Equal(t, Of("gem", "rake"), sig)
}

func TestGemfile_QuotingDoesNotMatter(t *testing.T) {
	// The parser strips delimiters before signatures ever see a literal, so
	// a symbol spelling and either quote style land on the same tuple.
	a := Gemfile(call("gem", str("rake")))
	b := Gemfile(call("gem", sym("rake")))
	assert.True(t, a.Equal(b))
}

func TestGemfile_SourceIsSingleton(t *testing.T) {
	a := Gemfile(call("source", str("https://rubygems.org")))
	b := Gemfile(call("source", str("https://example.test")))
	assert.Equal(t, Of("source"), a)
	assert.True(t, a.Equal(b), "singleton must match regardless of argument value")
}

func TestGemfile_GroupMatchesOnLabels(t *testing.T) {
	sig := Gemfile(call("group", sym("development"), sym("test")))
	assert.Equal(t, Of("group", "development", "test"), sig)

	other := Gemfile(call("group", sym("test")))
	assert.False(t, sig.Equal(other))
}

func TestGemfile_NonLiteralArgumentIsSentinel(t *testing.T) {
	sig := Gemfile(call("gem", &ast.Node{Kind: ast.KindUnknown, Source: "name_var"}))
	assert.True(t, sig.IsNone())
}

func TestGemspec_AssignmentUsesReceiverPath(t *testing.T) {
	n := &ast.Node{Kind: ast.KindAssignment, Name: "name", Receiver: "spec"}
	assert.Equal(t, Of("call", "name", "spec"), Gemspec(n))

	qualified := &ast.Node{Kind: ast.KindAssignment, Name: "version", Receiver: "Gem::Specification"}
	assert.Equal(t, Of("call", "version", "Gem::Specification"), Gemspec(qualified))
}

func TestGemspec_UnresolvableReceiverIsSentinel(t *testing.T) {
	n := &ast.Node{Kind: ast.KindAssignment, Name: "name"}
	assert.True(t, Gemspec(n).IsNone())
}

func TestGemspec_SpecBlockMatchesViaReceiver(t *testing.T) {
	n := &ast.Node{Kind: ast.KindCall, Name: "new", Receiver: "Gem::Specification", Body: []*ast.Node{}}
	assert.Equal(t, Of("call", "new", "Gem::Specification"), Gemspec(n))
}

func TestRakefile_TaskEntry(t *testing.T) {
	assert.Equal(t, Of("task", "spec"), Rakefile(call("task", str("spec"))))
	assert.Equal(t, Of("task", "spec"), Rakefile(call("task", sym("spec"))))
}

func TestSignature_SentinelNeverEqualsItself(t *testing.T) {
	assert.False(t, None().Equal(None()))
	assert.False(t, Of("gem", "x").Equal(None()))
}

func TestSignature_UnknownStatementIsSentinel(t *testing.T) {
	assert.True(t, Gemfile(&ast.Node{Kind: ast.KindConditional}).IsNone())
	assert.True(t, Gemfile(nil).IsNone())
}
