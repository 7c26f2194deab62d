package merge

import (
	"remold/internal/signature"
)

// Structural is the default Merger: signature-keyed matching with
// destination order preserved and template preference on collisions.
type Structural struct{}

// NewStructural returns the default structural merger.
func NewStructural() *Structural { return &Structural{} }

func (s *Structural) Merge(template, dest []Entry, sig signature.Func, opts Options) ([]MergedEntry, error) {
	type templateSlot struct {
		index    int
		consumed bool
	}

	// First template occurrence of each signature wins; later duplicates in
	// the template itself are ignored for matching.
	templateByKey := make(map[string]*templateSlot, len(template))
	templateSigs := make([]signature.Signature, len(template))
	for i, e := range template {
		sg := sig(e.Node)
		templateSigs[i] = sg
		if sg.IsNone() {
			continue
		}
		if _, exists := templateByKey[sg.Key()]; !exists {
			templateByKey[sg.Key()] = &templateSlot{index: i}
		}
	}

	var out []MergedEntry
	seen := make(map[string]bool)

	for _, e := range dest {
		sg := sig(e.Node)
		if sg.IsNone() {
			// Opaque identity: always kept, never matched.
			out = append(out, MergedEntry{Text: e.Text, Lead: e.Lead, Provenance: Kept})
			continue
		}
		key := sg.Key()
		if seen[key] {
			out = append(out, MergedEntry{Lead: e.Lead, Provenance: Removed, Signature: sg})
			continue
		}
		seen[key] = true

		slot, matched := templateByKey[key]
		if !matched {
			out = append(out, MergedEntry{Text: e.Text, Lead: e.Lead, Provenance: Kept, Signature: sg})
			continue
		}
		slot.consumed = true
		tmpl := template[slot.index]
		if opts.Preference == PreferTemplate && tmpl.Text != e.Text {
			out = append(out, MergedEntry{Text: tmpl.Text, Lead: e.Lead, Provenance: Replaced, Signature: sg})
		} else {
			out = append(out, MergedEntry{Text: e.Text, Lead: e.Lead, Provenance: Kept, Signature: sg})
		}
	}

	if opts.InsertUnmatched {
		// Opaque entries fall back to exact-text identity: a template entry
		// the destination already carries verbatim is not inserted again, so
		// repeated merges stay stable.
		destTexts := make(map[string]bool, len(dest))
		for _, e := range dest {
			destTexts[e.Text] = true
		}
		for i, e := range template {
			sg := templateSigs[i]
			if sg.IsNone() {
				if destTexts[e.Text] {
					continue
				}
				destTexts[e.Text] = true
			} else {
				slot := templateByKey[sg.Key()]
				if slot == nil || slot.index != i || slot.consumed {
					continue
				}
				// A template entry whose signature the destination already
				// carries was consumed above; everything else is novel.
				if seen[sg.Key()] {
					continue
				}
				seen[sg.Key()] = true
			}
			out = append(out, MergedEntry{Text: e.Text, Lead: "\n", Provenance: Inserted, Signature: sg})
		}
	}

	return out, nil
}
