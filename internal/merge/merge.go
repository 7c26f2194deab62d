// Package merge holds the structural merge capability: given two entry
// streams and a signature function, produce one merged stream honoring
// identity matching, preference, and append-only insertion of unmatched
// template entries.
package merge

import (
	"remold/internal/ast"
	"remold/internal/signature"
)

// Preference decides which side's text survives a signature collision.
type Preference int

const (
	PreferTemplate Preference = iota
	PreferDestination
)

// Options configures one merge invocation.
type Options struct {
	Preference      Preference
	InsertUnmatched bool
}

// Entry is one mergeable statement: its parsed node plus the exact text to
// emit for it. Lead carries the leading trivia (blank lines, comments)
// that belongs in front of the statement in the output.
type Entry struct {
	Node *ast.Node
	Text string
	Lead string
}

// Provenance tags where a merged entry came from.
type Provenance int

const (
	Kept Provenance = iota // destination entry, untouched
	Replaced               // destination entry, text taken from template
	Inserted               // template-only entry appended
	Removed                // destination duplicate dropped
)

func (p Provenance) String() string {
	switch p {
	case Replaced:
		return "replaced"
	case Inserted:
		return "inserted"
	case Removed:
		return "removed"
	default:
		return "kept"
	}
}

// MergedEntry is one output statement with provenance.
type MergedEntry struct {
	Text       string
	Lead       string
	Provenance Provenance
	Signature  signature.Signature
}

// Merger is the structural merge capability. Implementations must preserve
// destination order, retain at most one entry per defined signature, and
// (when opts.InsertUnmatched) append unmatched template entries in
// template order.
type Merger interface {
	Merge(template, dest []Entry, sig signature.Func, opts Options) ([]MergedEntry, error)
}
