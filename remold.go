// Package remold reconciles generated project boilerplate against a
// project's hand-edited copy. Dependency manifests, package specs,
// build-task files and test-matrix manifests are merged structurally:
// entries are matched by a signature computed from their parsed shape, so
// the same logical entry is recognized across both documents regardless of
// quoting or formatting, destination-only entries survive in their original
// order, and template-only entries are appended. Revision-history documents
// use a dedicated heading- and list-aware reconciliation instead.
//
// Every entry point is literal text in, literal text out, and fails soft:
// when a document cannot be parsed the destination text comes back
// unchanged.
package remold

import (
	"remold/internal/ast"
	"remold/internal/changelog"
	"remold/internal/diag"
	"remold/internal/manifest"
	"remold/internal/merge"
	"remold/internal/prose"
	"remold/internal/section"
)

// Reporter receives diagnostics from fail-soft boundaries.
type Reporter = diag.Reporter

// NopReporter discards all diagnostics.
func NopReporter() Reporter { return diag.Nop() }

// TypedSection is a classification result: a statement (or grouped run of
// statements) tagged with its logical type, matching name and extracted
// metadata.
type TypedSection = section.TypedSection

// MergeDependencyManifest merges a generated Gemfile against the
// destination's copy.
func MergeDependencyManifest(src, dest string) string {
	return MergeManifest(manifest.KindGemfile, src, dest, diag.Nop())
}

// MergePackageSpec merges a generated gemspec against the destination's
// copy.
func MergePackageSpec(src, dest string) string {
	return MergeManifest(manifest.KindGemspec, src, dest, diag.Nop())
}

// MergeTaskFile merges a generated Rakefile against the destination's copy.
func MergeTaskFile(src, dest string) string {
	return MergeManifest(manifest.KindRakefile, src, dest, diag.Nop())
}

// MergeTestMatrix merges a generated Appraisals manifest against the
// destination's copy.
func MergeTestMatrix(src, dest string) string {
	return MergeManifest(manifest.KindAppraisals, src, dest, diag.Nop())
}

// MergeManifest merges a template manifest of the given kind against the
// destination text, reporting soft failures to rep.
func MergeManifest(kind manifest.Kind, src, dest string, rep Reporter) string {
	return manifest.Merge(manifest.RecipeFor(kind), merge.NewStructural(), src, dest, rep)
}

// RemoveNamedDependency removes every top-level dependency declaration for
// name; used to keep a generated manifest from depending on itself.
func RemoveNamedDependency(text, name string) string {
	return manifest.RemoveNamedDependency(text, name, diag.Nop())
}

// RemoveBuiltinGitSource removes an explicit declaration of the built-in
// github git source.
func RemoveBuiltinGitSource(text string) string {
	return manifest.RemoveBuiltinGitSource(text, diag.Nop())
}

// MergeProseDocument merges a generated markdown document against the
// destination's copy: blocks match by their markdown signatures, hand-written
// paragraphs survive, template-only blocks are appended.
func MergeProseDocument(src, dest string) string {
	return prose.Merge(merge.NewStructural(), src, dest, diag.Nop())
}

// MergeRevisionHistory rebuilds the destination changelog against the
// template: template header, canonical Unreleased block carrying the
// destination's items, destination history verbatim below.
func MergeRevisionHistory(template, dest string) string {
	return changelog.Merge(template, dest, diag.Nop())
}

// ClassifyAll classifies a parsed dependency manifest statement stream into
// typed sections; runs of unrecognized statements group into single
// unclassified sections preserving their order.
func ClassifyAll(nodes []*ast.Node) []TypedSection {
	recipe := manifest.RecipeFor(manifest.KindGemfile)
	return section.ClassifyAll(recipe.Classifiers, nodes)
}

// ParseManifest parses manifest DSL text into its top-level statement
// stream, for use with ClassifyAll.
func ParseManifest(text string) ([]*ast.Node, error) {
	doc, err := ast.ParseRuby(text)
	if err != nil {
		return nil, err
	}
	return doc.Statements, nil
}
