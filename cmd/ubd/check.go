package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ubd/internal/config"
	"ubd/internal/export"
	"ubd/internal/logging"
	"ubd/internal/parser"
	"ubd/internal/report"
	"ubd/internal/rule"
	"ubd/internal/scopes"
	"ubd/internal/storage"
	"ubd/internal/version"
)

var (
	checkFormatFlag     string
	checkPolicyFlag     string
	checkSourceTypeFlag string
	checkRepoRootFlag   string
	checkNoCacheFlag    bool
	checkExitZeroFlag   bool
	checkExportFlag     string
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check files for use-before-define violations",
	Long: `Check parses each given file (or every supported file under each given
directory), resolves identifier references through the lexical scope
graph, and reports references that occur before their declaration.

With no paths, the repository root is checked. The exit code is 1 when
any violation is found unless --exit-zero is set.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkFormatFlag, "format", "text",
		"Output format: text, json, or sarif")
	checkCmd.Flags().StringVar(&checkPolicyFlag, "policy", "",
		`Rule policy: "nofunc" or a JSON object like {"functions":false}`)
	checkCmd.Flags().StringVar(&checkSourceTypeFlag, "source-type", "module",
		"How to scope top-level bindings: module or script")
	checkCmd.Flags().StringVar(&checkRepoRootFlag, "repo-root", ".",
		"Repository root holding .ubd/config.json")
	checkCmd.Flags().BoolVar(&checkNoCacheFlag, "no-cache", false,
		"Skip the results cache")
	checkCmd.Flags().BoolVar(&checkExitZeroFlag, "exit-zero", false,
		"Exit 0 even when violations are found")
	checkCmd.Flags().StringVar(&checkExportFlag, "export", "",
		"Also write the run to this file (.json, .sarif, .txt; add .zst to compress)")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(checkFormatFlag)
	if err != nil {
		return err
	}

	sourceType, err := scopes.ParseSourceType(checkSourceTypeFlag)
	if err != nil {
		return err
	}

	repoRoot, err := filepath.Abs(checkRepoRootFlag)
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

	// An explicit --policy wins everywhere; otherwise each file uses the
	// nearest rc file above it, falling back to the project config.
	var flagPolicy *rule.Policy
	if checkPolicyFlag != "" {
		p, err := parsePolicyFlag(checkPolicyFlag)
		if err != nil {
			return err
		}
		flagPolicy = &p
	}

	var cache *storage.ResultCache
	if cfg.Cache.Enabled && !checkNoCacheFlag {
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
		ds, err := checkFile(ctx, p, cache, path, repoRoot, sourceType, flagPolicy, cfg, logger)
		if err != nil {
			logger.Error("Check failed", map[string]interface{}{
				"file":  path,
				"error": err.Error(),
			})
			return err
		}
		run.Add(ds...)
	}

	if err := report.Write(cmd.OutOrStdout(), run, format); err != nil {
		return err
	}

	if checkExportFlag != "" {
		exporter := export.NewExporter(logger)
		if err := exporter.Export(run, checkExportFlag, export.FormatForPath(checkExportFlag)); err != nil {
			return err
		}
	}

	if len(run.Diagnostics) > 0 && !checkExitZeroFlag {
		// Deferred cleanup (the cache handle) must run before the
		// process exits, so main owns the actual os.Exit call.
		exitCode = 1
	}

	return nil
}

// checkFile runs the full pipeline for one file: resolve the effective
// policy, consult the cache, and on a miss parse, analyze, and check.
func checkFile(ctx context.Context, p *parser.Parser, cache *storage.ResultCache,
	path, repoRoot string, sourceType scopes.SourceType,
	flagPolicy *rule.Policy, cfg *config.Config, logger *logging.Logger) ([]report.Diagnostic, error) {

	policy := cfg.Policy()
	if rcPath := config.FindRC(filepath.Dir(path), repoRoot); rcPath != "" {
		rcPolicy, err := config.LoadRC(rcPath)
		if err != nil {
			return nil, err
		}
		policy = rcPolicy
	}
	if flagPolicy != nil {
		policy = *flagPolicy
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	contentKey := storage.ContentKey(source)
	policyKey := storage.PolicyKey(policy)

	if cache != nil {
		var cached []report.Diagnostic
		hit, err := cache.Get(path, contentKey, policyKey, &cached)
		if err != nil {
			logger.Warn("Cache lookup failed", map[string]interface{}{
				"file":  path,
				"error": err.Error(),
			})
		} else if hit {
			logger.Debug("Cache hit", map[string]interface{}{"file": path})
			return cached, nil
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := parser.LanguageFromExtension(ext)
	if !ok {
		return nil, fmt.Errorf("no grammar for %s files", ext)
	}

	tree, err := p.ParseSource(ctx, path, source, lang)
	if err != nil {
		return nil, err
	}

	top := scopes.Analyze(tree, scopes.Options{SourceType: sourceType})
	found := rule.NewChecker(policy).Check(top)
	ds := report.FromRule(tree, found)

	if cache != nil {
		if err := cache.Put(path, contentKey, policyKey, ds); err != nil {
			logger.Warn("Cache write failed", map[string]interface{}{
				"file":  path,
				"error": err.Error(),
			})
		}
	}

	return ds, nil
}

// parsePolicyFlag accepts the "nofunc" literal or a JSON object.
func parsePolicyFlag(value string) (rule.Policy, error) {
	if strings.HasPrefix(strings.TrimSpace(value), "{") {
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(value), &obj); err != nil {
			return rule.Policy{}, fmt.Errorf("invalid policy JSON: %w", err)
		}
		return rule.ParsePolicy(obj)
	}
	return rule.ParsePolicy(value)
}

// collectFiles expands the argument list: files are taken as given,
// directories are walked for supported extensions, skipping ignored
// directory names.
func collectFiles(args, ignore []string) ([]string, error) {
	ignored := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		ignored[name] = true
	}

	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !seen[abs] {
			seen[abs] = true
			files = append(files, abs)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if ignored[name] || (strings.HasPrefix(name, ".") && path != arg) {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := parser.LanguageFromExtension(strings.ToLower(filepath.Ext(path))); ok {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}
