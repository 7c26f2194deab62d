package ast

import (
	"regexp"
	"strings"
)

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletRe   = regexp.MustCompile(`^(\s*)([-*+])\s+`)
	fenceRe    = regexp.MustCompile("^\\s*(```|~~~)\\s*([A-Za-z0-9_+-]*)")
	linkDefRe  = regexp.MustCompile(`^\[([^\]]+)\]:\s*(\S+)`)
	linkOnlyRe = regexp.MustCompile(`^\s*\[([^\]]*)\]\(([^)\s]+)[^)]*\)\s*$`)
	imgOnlyRe  = regexp.MustCompile(`^\s*!\[([^\]]*)\]\(([^)\s]+)[^)]*\)\s*$`)
)

// ScanMarkdown splits prose markdown text into a flat sequence of block
// nodes. It is a block-level scan only: enough structure for signature
// matching, no inline parsing.
func ScanMarkdown(text string) []*Node {
	lines := strings.Split(text, "\n")
	offsets := lineOffsets(text)

	var nodes []*Node
	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			i++

		case headingRe.MatchString(trimmed):
			m := headingRe.FindStringSubmatch(trimmed)
			nodes = append(nodes, blockNode(KindHeading, lines, offsets, i, i, func(n *Node) {
				n.Level = len(m[1])
				n.Value = strings.TrimSpace(m[2])
			}))
			i++

		case fenceRe.MatchString(line):
			m := fenceRe.FindStringSubmatch(line)
			end := i + 1
			for end < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[end]), m[1]) {
				end++
			}
			if end >= len(lines) {
				end = len(lines) - 1
			}
			nodes = append(nodes, blockNode(KindCodeFence, lines, offsets, i, end, func(n *Node) {
				n.Name = m[2]
			}))
			i = end + 1

		case strings.HasPrefix(trimmed, "<!--"):
			end := i
			for end < len(lines) && !strings.Contains(lines[end], "-->") {
				end++
			}
			if end >= len(lines) {
				end = len(lines) - 1
			}
			nodes = append(nodes, blockNode(KindHTMLBlock, lines, offsets, i, end, func(n *Node) {
				n.Name = "comment"
			}))
			i = end + 1

		case strings.HasPrefix(trimmed, "<"):
			end := i
			for end+1 < len(lines) && strings.TrimSpace(lines[end+1]) != "" {
				end++
			}
			nodes = append(nodes, blockNode(KindHTMLBlock, lines, offsets, i, end, nil))
			i = end + 1

		case linkDefRe.MatchString(line):
			m := linkDefRe.FindStringSubmatch(line)
			nodes = append(nodes, blockNode(KindLinkDefinition, lines, offsets, i, i, func(n *Node) {
				n.Name = m[1]
				n.Value = m[2]
			}))
			i++

		case strings.HasPrefix(trimmed, "|"):
			end := i
			for end+1 < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[end+1]), "|") {
				end++
			}
			nodes = append(nodes, blockNode(KindTable, lines, offsets, i, end, func(n *Node) {
				n.Value = strings.TrimSpace(lines[i])
			}))
			i = end + 1

		case bulletRe.MatchString(line):
			nodes = append(nodes, blockNode(KindListItem, lines, offsets, i, i, func(n *Node) {
				n.Value = trimmed
			}))
			i++

		case imgOnlyRe.MatchString(line):
			m := imgOnlyRe.FindStringSubmatch(line)
			nodes = append(nodes, blockNode(KindImage, lines, offsets, i, i, func(n *Node) {
				n.Value = m[2]
			}))
			i++

		case linkOnlyRe.MatchString(line):
			m := linkOnlyRe.FindStringSubmatch(line)
			nodes = append(nodes, blockNode(KindLink, lines, offsets, i, i, func(n *Node) {
				n.Value = m[2]
			}))
			i++

		default:
			end := i
			for end+1 < len(lines) && strings.TrimSpace(lines[end+1]) != "" &&
				!headingRe.MatchString(strings.TrimSpace(lines[end+1])) &&
				!bulletRe.MatchString(lines[end+1]) &&
				!fenceRe.MatchString(lines[end+1]) {
				end++
			}
			nodes = append(nodes, blockNode(KindParagraph, lines, offsets, i, end, nil))
			i = end + 1
		}
	}

	return nodes
}

func blockNode(kind Kind, lines []string, offsets []int, start, end int, fill func(*Node)) *Node {
	n := &Node{
		Kind:      kind,
		Source:    strings.Join(lines[start:end+1], "\n"),
		StartByte: offsets[start],
		EndByte:   offsets[end] + len(lines[end]),
		Start:     Position{Line: start},
		End:       Position{Line: end},
	}
	if fill != nil {
		fill(n)
	}
	return n
}

// lineOffsets returns the byte offset of the start of each line.
func lineOffsets(text string) []int {
	lines := strings.Split(text, "\n")
	offsets := make([]int, len(lines))
	pos := 0
	for i, line := range lines {
		offsets[i] = pos
		pos += len(line) + 1
	}
	return offsets
}
