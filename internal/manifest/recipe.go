// Package manifest wires the merge engine together per document kind:
// scope filtering, self-reference and built-in stripping, and the concrete
// merge recipes for dependency manifests, package specs, build-task files
// and test-matrix manifests.
package manifest

import (
	"path/filepath"
	"strings"

	"remold/internal/section"
	"remold/internal/signature"
)

// Kind names a mergeable manifest document kind.
type Kind string

const (
	KindGemfile    Kind = "gemfile"
	KindGemspec    Kind = "gemspec"
	KindRakefile   Kind = "rakefile"
	KindAppraisals Kind = "appraisals"
)

// allowRule is one allow-list entry for the scope filter. Block-carrying
// statements are kept only when Block is set.
type allowRule struct {
	Block bool
}

// Recipe is the immutable per-kind configuration: which statements are in
// scope, how identity is computed, and how statements classify into
// sections. Recipes are constructed once and passed explicitly.
type Recipe struct {
	Kind        Kind
	Signature   signature.Func
	Classifiers []section.Classifier

	allow            map[string]allowRule
	allowAssignments bool
	allowSpecBlock   bool // the Gem::Specification.new do … end statement
	stripGitSource   bool
}

// RecipeFor builds the recipe for one document kind.
func RecipeFor(kind Kind) Recipe {
	switch kind {
	case KindGemspec:
		return Recipe{
			Kind:      KindGemspec,
			Signature: signature.Gemspec,
			Classifiers: []section.Classifier{
				section.AssignmentClassifier{Type: section.TypeSpecField},
				section.CallClassifier{Method: "require", Type: section.TypeRequire},
				section.CallClassifier{Method: "require_relative", Type: section.TypeRequire},
			},
			allow: map[string]allowRule{
				"require":          {},
				"require_relative": {},
			},
			allowAssignments: true,
			allowSpecBlock:   true,
		}

	case KindRakefile:
		return Recipe{
			Kind:      KindRakefile,
			Signature: signature.Rakefile,
			Classifiers: []section.Classifier{
				section.BlockClassifier{
					Method:  "namespace",
					Type:    section.TypeNamespace,
					Collect: map[string]bool{"task": true, "desc": true},
				},
				section.CallClassifier{Method: "task", Type: section.TypeTask},
				section.CallClassifier{Method: "require", Type: section.TypeRequire},
				section.CallClassifier{Method: "require_relative", Type: section.TypeRequire},
				section.CallClassifier{Method: "load", Type: section.TypeRequire},
			},
			allow: map[string]allowRule{
				"require":          {},
				"require_relative": {},
				"load":             {},
				"desc":             {},
				"task":             {Block: true},
				"namespace":        {Block: true},
			},
		}

	case KindAppraisals:
		return Recipe{
			Kind:      KindAppraisals,
			Signature: signature.Appraisals,
			Classifiers: []section.Classifier{
				section.BlockClassifier{
					Method:  "appraise",
					Type:    section.TypeAppraisal,
					Collect: map[string]bool{"gem": true},
				},
			},
			allow: map[string]allowRule{
				"appraise": {Block: true},
			},
		}

	default: // KindGemfile
		return Recipe{
			Kind:      KindGemfile,
			Signature: signature.Gemfile,
			Classifiers: []section.Classifier{
				section.CallClassifier{Method: "gem", Type: section.TypeDependency},
				section.CallClassifier{Method: "source", Type: section.TypeSource},
				section.CallClassifier{Method: "eval_gemfile", Type: section.TypeEvalGemfile},
				section.BlockClassifier{
					Method:  "group",
					Type:    section.TypeGroup,
					Collect: map[string]bool{"gem": true},
				},
				section.BlockClassifier{
					Method:  "git_source",
					Type:    section.TypeGitSource,
					Collect: map[string]bool{},
				},
			},
			allow: map[string]allowRule{
				"source":       {},
				"gem":          {},
				"eval_gemfile": {},
				"ruby":         {},
				"group":        {Block: true},
				// The one block-carrying exception: a named source with
				// its own block stays in scope.
				"git_source": {Block: true},
			},
			stripGitSource: true,
		}
	}
}

// KindForFilename maps well-known manifest filenames to their kind.
func KindForFilename(name string) (Kind, bool) {
	base := filepath.Base(name)
	switch {
	case base == "Gemfile" || base == "gems.rb":
		return KindGemfile, true
	case strings.HasSuffix(base, ".gemspec"):
		return KindGemspec, true
	case base == "Rakefile" || strings.HasSuffix(base, ".rake"):
		return KindRakefile, true
	case base == "Appraisals":
		return KindAppraisals, true
	}
	return "", false
}
