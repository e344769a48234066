package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/coachdoc/internal/config"
	"github.com/Zuo-Peng/coachdoc/internal/index"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Scan the transcript roots and index every export",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			fmt.Fprintf(os.Stderr, "Scanning roots...\n")
			for _, r := range cfg.Roots {
				fmt.Fprintf(os.Stderr, "  %s\n", r)
			}

			stats, err := runIndex(db, cfg, log)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}
}

func runIndex(db *index.DB, cfg *config.Config, log zerolog.Logger) (index.Stats, error) {
	return index.IndexAll(db, cfg.Roots, index.Options{
		Encoding:   cfg.Encoding,
		SkipSuffix: cfg.OutputSuffix,
	}, log)
}
