// Package section classifies parsed statements into logical, named
// sections. Classification never fails: a statement that does not match a
// classifier's shape is simply unclassified, and runs of unclassified
// statements are grouped so later stages can treat interstitial content as
// one atomic unit.
package section

import "remold/internal/ast"

// Type tags the logical role of a classified statement.
type Type string

const (
	TypeDependency   Type = "dependency"
	TypeSource       Type = "source"
	TypeGitSource    Type = "git_source"
	TypeEvalGemfile  Type = "eval_gemfile"
	TypeRubyVersion  Type = "ruby_version"
	TypeGroup        Type = "group"
	TypeRequire      Type = "require"
	TypeTask         Type = "task"
	TypeNamespace    Type = "namespace"
	TypeAppraisal    Type = "appraisal"
	TypeSpecField    Type = "spec_field"
	TypeUnclassified Type = "unclassified"
)

// MetadataEntry is one extracted fact; entries keep extraction order.
type MetadataEntry struct {
	Key   string
	Value string
}

// TypedSection is the classification result for one statement, or for a
// grouped run of unclassified statements. Immutable once created.
type TypedSection struct {
	Type     Type
	Name     string
	Node     *ast.Node   // the classified statement; nil for grouped runs
	Nodes    []*ast.Node // original run for unclassified groups
	Metadata []MetadataEntry
}

// Classifier maps one node to a TypedSection. ok is false when the node
// does not have the classifier's shape; that is not an error.
type Classifier interface {
	Classify(n *ast.Node) (TypedSection, bool)
}

// ClassifyAll runs nodes through the classifier list in order. Consecutive
// nodes no classifier accepts collapse into a single unclassified section
// that preserves their order and positions.
func ClassifyAll(classifiers []Classifier, nodes []*ast.Node) []TypedSection {
	var out []TypedSection
	var pending []*ast.Node

	flush := func() {
		if len(pending) == 0 {
			return
		}
		out = append(out, TypedSection{
			Type:  TypeUnclassified,
			Nodes: pending,
		})
		pending = nil
	}

	for _, n := range nodes {
		classified := false
		for _, c := range classifiers {
			if sec, ok := c.Classify(n); ok {
				flush()
				out = append(out, sec)
				classified = true
				break
			}
		}
		if !classified {
			pending = append(pending, n)
		}
	}
	flush()
	return out
}
