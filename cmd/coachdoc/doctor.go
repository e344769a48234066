package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/coachdoc/internal/index"
	"github.com/Zuo-Peng/coachdoc/internal/parse"
	"github.com/Zuo-Peng/coachdoc/internal/scan"
	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, roots, DB, FTS5, and show stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadEnv()
			if err != nil {
				return err
			}

			fmt.Println("=== Config ===")
			fmt.Printf("  Output suffix: %s\n", cfg.OutputSuffix)
			if _, err := parse.LookupEncoding(cfg.Encoding); err != nil {
				fmt.Printf("  Encoding: %s (%v)\n", cfg.Encoding, err)
			} else {
				fmt.Printf("  Encoding: %s (OK)\n", cfg.Encoding)
			}
			if cfg.Coach != "" {
				fmt.Printf("  Default coach: %s\n", cfg.Coach)
			}

			fmt.Println("\n=== Roots ===")
			for _, r := range cfg.Roots {
				checkDir(r)
			}

			fmt.Println("\n=== File Scan ===")
			files, err := scan.ScanRoots(cfg.OutputSuffix, cfg.Roots...)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				counts := make(map[transcript.Format]int)
				for _, f := range files {
					counts[f.Format]++
				}
				fmt.Printf("  Caption files (.vtt):   %d\n", counts[transcript.FormatCaptions])
				fmt.Printf("  Document files (.docx): %d\n", counts[transcript.FormatDocument])
			}

			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'coachdoc index' first)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			transcriptCount, err := db.TranscriptCount()
			if err != nil {
				return fmt.Errorf("count transcripts: %w", err)
			}
			entryCount, err := db.EntryCount()
			if err != nil {
				return fmt.Errorf("count entries: %w", err)
			}
			fmt.Printf("  Transcripts: %d\n", transcriptCount)
			fmt.Printf("  Entries:     %d\n", entryCount)

			fmt.Println("\n=== FTS5 ===")
			var ftsCount int
			err = db.Raw().QueryRow("SELECT COUNT(*) FROM entries_fts").Scan(&ftsCount)
			if err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
			} else {
				fmt.Printf("  FTS5 entries: %d\n", ftsCount)
				if ftsCount == entryCount {
					fmt.Println("  Status: OK (synced)")
				} else {
					fmt.Printf("  Status: MISMATCH (entries=%d, fts=%d)\n", entryCount, ftsCount)
				}
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Printf("\n=== DB Size: %.1f MB ===\n", sizeMB)
			}

			return nil
		},
	}
}

func checkDir(path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s (NOT FOUND)\n", path)
	} else if !info.IsDir() {
		fmt.Printf("  %s (NOT A DIRECTORY)\n", path)
	} else {
		fmt.Printf("  %s (OK)\n", path)
	}
}
