// Package signature computes structural identity keys for parsed
// statements. Two statements denote the same logical entry exactly when
// both have a defined signature and the signatures are equal; everything
// ambiguous degrades to the None sentinel and keeps its default, opaque
// identity in the merger.
package signature

import (
	"strings"

	"remold/internal/ast"
)

// Signature is an ordered tuple of tag and literal values. A nil Signature
// is the "no signature" sentinel.
type Signature []string

// None is the sentinel meaning "no special identity".
func None() Signature { return nil }

// Of builds a signature from its tuple elements.
func Of(parts ...string) Signature { return Signature(parts) }

// IsNone reports whether s is the sentinel.
func (s Signature) IsNone() bool { return s == nil }

// Equal reports element-wise equality. The sentinel equals nothing,
// including itself.
func (s Signature) Equal(o Signature) bool {
	if s.IsNone() || o.IsNone() || len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Key returns a flat map key for a defined signature, "" for the sentinel.
func (s Signature) Key() string {
	if s.IsNone() {
		return ""
	}
	return strings.Join(s, "\x1f")
}

func (s Signature) String() string {
	if s.IsNone() {
		return "<none>"
	}
	return "(" + strings.Join(s, ", ") + ")"
}

// Func computes the signature of one node. Implementations are pure: no
// I/O, no panics, ambiguous shapes return None.
type Func func(*ast.Node) Signature
