// Package changelog reconciles prose revision-history documents in Keep a
// Changelog form. It does not use the generic structural merger: the
// Unreleased section is rebuilt canonically from the destination's item
// blocks while the destination's released history stays verbatim.
package changelog

import (
	"regexp"
	"strings"

	"remold/internal/diag"
)

// CanonicalSubheadings are the six Unreleased subheadings, in fixed order.
// They are always present in the merged output, even when empty.
var CanonicalSubheadings = []string{
	"Added", "Changed", "Deprecated", "Removed", "Fixed", "Security",
}

var (
	headingRe        = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	unreleasedRe     = regexp.MustCompile(`(?i)^(#{1,6})\s+\[?unreleased\]?\s*$`)
	bulletRe         = regexp.MustCompile(`^([ \t]*)[-*+][ \t]+`)
	fenceRe          = regexp.MustCompile("^[ \t]*(```|~~~)")
	linkDefRe        = regexp.MustCompile(`^\[[^\]]+\]:\s*\S`)
	versionHeadingRe = regexp.MustCompile(`^#{1,6}[ \t]+\[?v?[0-9]`)
	hwsRunRe         = regexp.MustCompile(`[ \t]+`)
)

// Merge rebuilds the destination's revision history against the template:
// template header, canonical Unreleased block filled with the destination's
// item blocks, then the destination's released history and trailing link
// reference definitions verbatim.
func Merge(template, dest string, rep diag.Reporter) string {
	if strings.TrimSpace(dest) == "" {
		return template
	}

	tmplLines := strings.Split(template, "\n")
	destLines := strings.Split(dest, "\n")

	tmplIdx, tmplLevel, tmplOK := findUnreleased(tmplLines)
	if !tmplOK {
		// Degenerate template: treat all of it as the header and
		// synthesize the heading.
		rep.Warnf("revision history: template has no Unreleased heading")
		tmplIdx = len(tmplLines)
		tmplLevel = 2
	}

	heading := "## [Unreleased]"
	if tmplOK {
		heading = tmplLines[tmplIdx]
	}

	items, dropped := destItems(destLines)
	if dropped > 0 {
		rep.Warnf("revision history: dropped %d item(s) under non-canonical Unreleased subheadings", dropped)
	}

	block := canonicalBlock(heading, tmplLevel, items)
	remainder := destRemainder(destLines)

	var out []string
	out = append(out, tmplLines[:tmplIdx]...)
	out = append(out, block...)
	if len(remainder) > 0 {
		out = append(out, "")
		out = append(out, remainder...)
	}

	return render(out)
}

// findUnreleased returns the line index and heading level of the first
// Unreleased heading.
func findUnreleased(lines []string) (idx, level int, ok bool) {
	for i, line := range lines {
		if m := unreleasedRe.FindStringSubmatch(line); m != nil {
			return i, len(m[1]), true
		}
	}
	return 0, 0, false
}

// sectionEnd computes the last line of a section opened by the heading at
// start: the line before the next heading at the same or shallower level,
// or the line before the trailing link-definition block, whichever comes
// first. Reference definitions are never swallowed into a section body.
func sectionEnd(lines []string, start, level int) int {
	limit := trailingLinkDefStart(lines)
	for i := start + 1; i < len(lines); i++ {
		if i == limit {
			return i - 1
		}
		if m := headingRe.FindStringSubmatch(lines[i]); m != nil && len(m[1]) <= level {
			return i - 1
		}
	}
	return len(lines) - 1
}

// trailingLinkDefStart finds the first line of the document's trailing
// block of [label]: url lines, or -1 when there is none.
func trailingLinkDefStart(lines []string) int {
	last := len(lines) - 1
	for last >= 0 && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if last < 0 || !linkDefRe.MatchString(lines[last]) {
		return -1
	}
	start := last
	for i := last; i >= 0; i-- {
		switch {
		case linkDefRe.MatchString(lines[i]):
			start = i
		case strings.TrimSpace(lines[i]) == "":
			// blank lines inside the trailing block are fine
		default:
			return start
		}
	}
	return start
}

// scanner states for item-block collection.
const (
	stateScan = iota
	stateItem
)

// destItems collects the destination's Unreleased item blocks grouped by
// canonical subheading. A missing Unreleased heading degrades to an empty
// map. dropped counts items under non-canonical subheadings.
func destItems(lines []string) (map[string][]string, int) {
	items := make(map[string][]string)
	idx, level, ok := findUnreleased(lines)
	if !ok {
		return items, 0
	}
	end := sectionEnd(lines, idx, level)

	canonical := make(map[string]string, len(CanonicalSubheadings))
	for _, name := range CanonicalSubheadings {
		canonical[strings.ToLower(name)] = name
	}

	state := stateScan
	inFence := false
	bucket := ""
	bucketKnown := false
	var item []string
	bulletIndent := 0
	dropped := 0

	flush := func() {
		if state != stateItem {
			return
		}
		block := strings.Join(trimTrailingBlank(item), "\n")
		if bucketKnown && bucket != "" {
			items[bucket] = append(items[bucket], block)
		} else {
			// Non-canonical subheading, or a bullet before any subheading.
			dropped++
		}
		item = nil
		state = stateScan
	}

	for i := idx + 1; i <= end && i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		// Inside a fenced region every line belongs to the open item,
		// regardless of indentation, until the fence toggles shut.
		if inFence {
			if state == stateItem {
				item = append(item, line)
			}
			if fenceRe.MatchString(line) {
				inFence = false
			}
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil && len(m[1]) > level {
			flush()
			name, isCanonical := canonical[strings.ToLower(strings.TrimSpace(m[2]))]
			bucketKnown = true
			if isCanonical {
				bucket = name
			} else {
				bucket = ""
			}
			continue
		}

		if m := bulletRe.FindStringSubmatch(line); m != nil {
			indent := len(m[1])
			if state == stateItem && indent > bulletIndent {
				// Nested bullet, part of the open item.
				item = append(item, line)
				continue
			}
			flush()
			state = stateItem
			item = []string{line}
			bulletIndent = indent
			continue
		}

		if state == stateItem {
			switch {
			case trimmed == "":
				item = append(item, line)
			case fenceRe.MatchString(line):
				item = append(item, line)
				inFence = true
			case indentOf(line) > bulletIndent:
				item = append(item, line)
			default:
				// Sibling-level prose ends the item and belongs to nothing.
				flush()
			}
			continue
		}
	}
	flush()

	return items, dropped
}

// canonicalBlock renders the Unreleased block: the template's heading line,
// then the six canonical subheadings in fixed order, each carrying the
// destination's item blocks for it.
func canonicalBlock(heading string, level int, items map[string][]string) []string {
	sub := strings.Repeat("#", level+1)
	out := []string{heading}
	for _, name := range CanonicalSubheadings {
		out = append(out, "", sub+" "+name)
		list := items[name]
		if len(list) == 0 {
			continue
		}
		out = append(out, "")
		for _, block := range list {
			out = append(out, strings.Split(block, "\n")...)
		}
	}
	return trimTrailingBlank(out)
}

// destRemainder returns the destination lines following its Unreleased
// section, with leading blank lines trimmed. Without an Unreleased heading
// the remainder starts at the first released-version heading, or at the
// trailing link-definition block when no version sections exist.
func destRemainder(lines []string) []string {
	idx, level, ok := findUnreleased(lines)
	var tail []string
	if ok {
		end := sectionEnd(lines, idx, level)
		if end+1 < len(lines) {
			tail = lines[end+1:]
		}
	} else {
		start := -1
		for i, line := range lines {
			if versionHeadingRe.MatchString(line) {
				start = i
				break
			}
		}
		if start < 0 {
			start = trailingLinkDefStart(lines)
		}
		if start >= 0 {
			tail = lines[start:]
		}
	}
	for len(tail) > 0 && strings.TrimSpace(tail[0]) == "" {
		tail = tail[1:]
	}
	for len(tail) > 0 && strings.TrimSpace(tail[len(tail)-1]) == "" {
		tail = tail[:len(tail)-1]
	}
	return tail
}

// render normalizes version heading whitespace and guarantees exactly one
// trailing newline.
func render(lines []string) string {
	for i, line := range lines {
		if versionHeadingRe.MatchString(line) {
			lines[i] = hwsRunRe.ReplaceAllString(line, " ")
		}
	}
	out := strings.TrimRight(strings.Join(lines, "\n"), "\n")
	return out + "\n"
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func indentOf(line string) int {
	n := 0
	for _, r := range line {
		if r == ' ' {
			n++
		} else if r == '\t' {
			n += 4
		} else {
			break
		}
	}
	return n
}
