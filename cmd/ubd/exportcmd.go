package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"ubd/internal/config"
	"ubd/internal/export"
	"ubd/internal/parser"
	"ubd/internal/report"
	"ubd/internal/rule"
	"ubd/internal/scopes"
	"ubd/internal/storage"
	"ubd/internal/version"
)

var (
	exportOutFlag      string
	exportPolicyFlag   string
	exportRepoRootFlag string
	exportNoCacheFlag  bool
)

var exportCmd = &cobra.Command{
	Use:   "export [paths...]",
	Short: "Run the check and write the full run to a file",
	Long: `Export runs the same pipeline as check but writes the run to a file
instead of stdout. The format follows the output extension: .json, .sarif,
or .txt, with a trailing .zst adding zstd compression.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOutFlag, "out", "",
		"Output file (required)")
	exportCmd.Flags().StringVar(&exportPolicyFlag, "policy", "",
		`Rule policy: "nofunc" or a JSON object like {"functions":false}`)
	exportCmd.Flags().StringVar(&exportRepoRootFlag, "repo-root", ".",
		"Repository root holding .ubd/config.json")
	exportCmd.Flags().BoolVar(&exportNoCacheFlag, "no-cache", false,
		"Skip the results cache")
	_ = exportCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	repoRoot, err := filepath.Abs(exportRepoRootFlag)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(repoRoot)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Logging.Format, cfg.Logging.Level)

	if !parser.IsAvailable() {
		return fmt.Errorf("this build cannot parse sources (compiled without cgo)")
	}

	var flagPolicy *rule.Policy
	if exportPolicyFlag != "" {
		p, err := parsePolicyFlag(exportPolicyFlag)
		if err != nil {
			return err
		}
		flagPolicy = &p
	}

	var cache *storage.ResultCache
	if cfg.Cache.Enabled && !exportNoCacheFlag {
		db, err := storage.Open(filepath.Join(repoRoot, cfg.Cache.Path), logger)
		if err != nil {
			logger.Warn("Results cache unavailable, continuing without it", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer db.Close()
			cache = storage.NewResultCache(db)
		}
	}

	if len(args) == 0 {
		args = []string{repoRoot}
	}
	files, err := collectFiles(args, cfg.Files.Ignore)
	if err != nil {
		return err
	}

	run := report.NewRun(version.Version, repoRoot)
	run.Files = len(files)

	p := parser.NewParser()
	ctx := context.Background()

	for _, path := range files {
		ds, err := checkFile(ctx, p, cache, path, repoRoot, scopes.SourceModule, flagPolicy, cfg, logger)
		if err != nil {
			return err
		}
		run.Add(ds...)
	}

	return export.NewExporter(logger).Export(run, exportOutFlag, export.FormatForPath(exportOutFlag))
}
