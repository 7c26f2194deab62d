// Package pipeline walks a template tree and reconciles every file into
// the destination project. The merge engine itself stays pure; all file
// I/O lives here.
package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"remold/internal/changelog"
	"remold/internal/config"
	"remold/internal/diag"
	"remold/internal/git"
	"remold/internal/manifest"
	"remold/internal/merge"
	"remold/internal/prose"
)

// Sync reconciles one template tree against one destination tree.
type Sync struct {
	Config   *config.Config
	Merger   merge.Merger
	Reporter diag.Reporter
	DryRun   bool

	ignored []string
	dirty   map[string]bool
}

// Result describes what happened to one file.
type Result struct {
	Path   string
	Action string // "merged", "copied", "unchanged", "skipped"
}

func NewSync(cfg *config.Config, m merge.Merger, rep diag.Reporter) *Sync {
	return &Sync{
		Config:   cfg,
		Merger:   m,
		Reporter: rep,
		ignored:  []string{".git", "vendor", "node_modules", "tmp"},
	}
}

// Run walks the template root and streams a Result per file through the
// callback.
func (s *Sync) Run(onResult func(Result)) error {
	s.loadDirty()

	root := s.Config.Template.Root
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			for _, ign := range s.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		for _, skip := range s.Config.Skip {
			if rel == skip || d.Name() == skip {
				onResult(Result{Path: rel, Action: "skipped"})
				return nil
			}
		}

		res, err := s.syncFile(path, rel)
		if err != nil {
			// Report and continue instead of failing the whole walk.
			s.Reporter.Errorf("sync %s: %v", rel, err)
			return nil
		}
		onResult(res)
		return nil
	})
}

func (s *Sync) syncFile(templatePath, rel string) (Result, error) {
	templateText, err := os.ReadFile(templatePath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read template: %w", err)
	}

	destPath := filepath.Join(s.Config.Destination.Root, rel)
	destText, err := os.ReadFile(destPath)
	if os.IsNotExist(err) {
		// Nothing to reconcile: the template lands verbatim.
		return Result{Path: rel, Action: "copied"}, s.write(destPath, string(templateText))
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to read destination: %w", err)
	}

	merged := s.mergeByKind(rel, string(templateText), string(destText))
	if merged == string(destText) {
		return Result{Path: rel, Action: "unchanged"}, nil
	}
	if s.dirty[filepath.ToSlash(rel)] {
		s.Reporter.Warnf("%s has uncommitted edits in the destination; merging over them", rel)
	}
	if s.DryRun {
		s.Reporter.Debugf("dry run %s:\n%s", rel, merge.Preview(string(destText), merged))
		return Result{Path: rel, Action: "merged"}, nil
	}
	return Result{Path: rel, Action: "merged"}, s.write(destPath, merged)
}

// loadDirty records which destination files carry uncommitted edits so a
// merge over hand work that was never committed gets called out.
func (s *Sync) loadDirty() {
	paths, err := git.DirtyFiles(s.Config.Destination.Root)
	if err != nil {
		s.Reporter.Debugf("dirty file detection unavailable: %v", err)
		return
	}
	if len(paths) == 0 {
		return
	}
	s.dirty = make(map[string]bool, len(paths))
	for _, p := range paths {
		s.dirty[p] = true
	}
}

// mergeByKind picks the document kind for a file and runs the matching
// merger. Files with no known kind keep their destination content.
func (s *Sync) mergeByKind(rel, templateText, destText string) string {
	base := filepath.Base(rel)
	if override, ok := s.Config.Kinds[base]; ok {
		return s.mergeNamedKind(override, templateText, destText)
	}
	if base == "CHANGELOG.md" || base == "CHANGES.md" {
		return changelog.Merge(templateText, destText, s.Reporter)
	}
	if kind, ok := manifest.KindForFilename(base); ok {
		return manifest.Merge(manifest.RecipeFor(kind), s.Merger, templateText, destText, s.Reporter)
	}
	return destText
}

func (s *Sync) mergeNamedKind(kind, templateText, destText string) string {
	switch kind {
	case "changelog":
		return changelog.Merge(templateText, destText, s.Reporter)
	case "markdown":
		return prose.Merge(s.Merger, templateText, destText, s.Reporter)
	}
	return manifest.Merge(manifest.RecipeFor(manifest.Kind(kind)), s.Merger, templateText, destText, s.Reporter)
}

func (s *Sync) write(path, content string) error {
	if s.DryRun {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
