package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"ubd/internal/config"
	"ubd/internal/storage"
)

var cacheRepoRootFlag string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the results cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached check results",
	RunE: func(cmd *cobra.Command, args []string) error {
		repoRoot, err := filepath.Abs(cacheRepoRootFlag)
		if err != nil {
			return err
		}
		cfg, err := config.LoadConfig(repoRoot)
		if err != nil {
			return err
		}

		logger := newLogger(cfg.Logging.Format, cfg.Logging.Level)
		db, err := storage.Open(filepath.Join(repoRoot, cfg.Cache.Path), logger)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := storage.NewResultCache(db).Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheRepoRootFlag, "repo-root", ".",
		"Repository root holding the cache database")
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
