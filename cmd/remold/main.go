package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"remold/internal/ast"
	"remold/internal/changelog"
	"remold/internal/config"
	"remold/internal/diag"
	"remold/internal/manifest"
	"remold/internal/merge"
	"remold/internal/pipeline"
	"remold/internal/prose"
	"remold/internal/section"
)

var (
	rootCmd = &cobra.Command{
		Use:   "remold",
		Short: "Reconcile generated boilerplate with hand-edited project files",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg = zap.NewDevelopmentConfig()
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	logger  *zap.Logger
	verbose bool
	dryRun  bool
	kind    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	mergeCmd.Flags().StringVar(&kind, "kind", "", "Document kind (gemfile, gemspec, rakefile, appraisals, changelog, markdown); detected from filename by default")
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print previews without writing files")

	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(changelogCmd)
	rootCmd.AddCommand(stripDepCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(syncCmd)
}

func reporter() diag.Reporter {
	return diag.New(logger)
}

var mergeCmd = &cobra.Command{
	Use:   "merge <template> <destination>",
	Short: "Merge a template manifest into a destination copy and print the result",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		templateText, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read template: %w", err)
		}
		destText, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read destination: %w", err)
		}

		k := kind
		if k == "" {
			detected, ok := manifest.KindForFilename(args[1])
			if !ok {
				return fmt.Errorf("cannot detect document kind for %s; pass --kind", args[1])
			}
			k = string(detected)
		}

		var out string
		switch k {
		case "changelog":
			out = changelog.Merge(string(templateText), string(destText), reporter())
		case "markdown":
			out = prose.Merge(merge.NewStructural(), string(templateText), string(destText), reporter())
		default:
			recipe := manifest.RecipeFor(manifest.Kind(k))
			out = manifest.Merge(recipe, merge.NewStructural(), string(templateText), string(destText), reporter())
		}
		fmt.Print(out)
		return nil
	},
}

var changelogCmd = &cobra.Command{
	Use:   "changelog <template> <destination>",
	Short: "Merge a revision-history document and print the result",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		templateText, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read template: %w", err)
		}
		destText, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read destination: %w", err)
		}
		fmt.Print(changelog.Merge(string(templateText), string(destText), reporter()))
		return nil
	},
}

var stripDepCmd = &cobra.Command{
	Use:   "strip-dep <file> <name>",
	Short: "Remove a named dependency declaration and print the result",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		fmt.Print(manifest.RemoveNamedDependency(string(text), args[1], reporter()))
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Classify a manifest's statements and print the sections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		k, ok := manifest.KindForFilename(args[0])
		if !ok {
			k = manifest.KindGemfile
		}
		recipe := manifest.RecipeFor(k)

		doc, err := ast.ParseRuby(string(text))
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}
		for _, sec := range section.ClassifyAll(recipe.Classifiers, doc.Statements) {
			if sec.Type == section.TypeUnclassified {
				fmt.Printf("%-14s %d statement(s)\n", sec.Type, len(sec.Nodes))
				continue
			}
			fmt.Printf("%-14s %s\n", sec.Type, sec.Name)
			for _, m := range sec.Metadata {
				fmt.Printf("    %s: %s\n", m.Key, m.Value)
			}
		}
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Walk the template tree and reconcile every file into the destination project",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig("remold.yaml")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.Verbose && !verbose {
			zcfg := zap.NewDevelopmentConfig()
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			if logger, err = zcfg.Build(); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
		}

		s := pipeline.NewSync(cfg, merge.NewStructural(), reporter())
		s.DryRun = dryRun

		counts := map[string]int{}
		err = s.Run(func(res pipeline.Result) {
			counts[res.Action]++
			if res.Action != "unchanged" {
				fmt.Printf("%-10s %s\n", res.Action, res.Path)
			}
		})
		if err != nil {
			return err
		}
		fmt.Printf("done: %d merged, %d copied, %d unchanged, %d skipped\n",
			counts["merged"], counts["copied"], counts["unchanged"], counts["skipped"])
		return nil
	},
}
