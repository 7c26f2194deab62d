// Package git answers one question for the sync pipeline: which files in
// the destination working tree carry uncommitted edits. Rewriting such a
// file would bury hand work the author never committed, so the pipeline
// calls these edits out before touching them.
package git

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// DirtyFiles returns the repo-relative paths with uncommitted changes in
// the working tree rooted at dir. A dir outside any git repository is not
// an error; it simply has no dirty files.
func DirtyFiles(dir string) ([]string, error) {
	if !isRepository(dir) {
		return nil, nil
	}

	cmd := exec.Command("git", "-C", dir, "status", "--porcelain")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git status failed: %w", err)
	}

	return parseStatus(output), nil
}

func isRepository(dir string) bool {
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--is-inside-work-tree")
	output, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(output)) == "true"
}

// parseStatus extracts paths from porcelain status output. Each line is
// "XY path" (or "XY old -> new" for renames; the new path is the one that
// exists on disk).
func parseStatus(output []byte) []string {
	var paths []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 4 {
			continue
		}
		path := line[3:]
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+len(" -> "):]
		}
		path = strings.Trim(path, "\"")
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}
