package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/coachdoc/internal/index"
	"github.com/Zuo-Peng/coachdoc/internal/parse"
	"github.com/Zuo-Peng/coachdoc/internal/render"
	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func previewCmd() *cobra.Command {
	var hit, context, width int
	var coach, query string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "preview <file|transcriptKey>",
		Short: "Render a transcript in the terminal, optionally around a hit",
		Long: `Renders a transcript file, or an indexed transcript by key, with numbered
turns. --hit marks a turn (0-based entry id) and --context limits the output
to that many turns around it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadEnv()
			if err != nil {
				return err
			}
			if coach == "" {
				coach = cfg.Coach
			}
			if width == 0 && term.IsTerminal(int(os.Stdout.Fd())) {
				if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
					width = w
				}
			}
			opts := render.Options{Coach: coach, Query: query, Width: width, HitIndex: hit, Context: context}

			var title string
			var entries []transcript.Entry
			if _, ferr := transcript.FormatForPath(args[0]); ferr == nil && fileExists(args[0]) {
				result, err := parse.ParseFile(args[0], parse.Options{Encoding: cfg.Encoding})
				if err != nil {
					return err
				}
				title, entries = result.Meta.TranscriptKey, result.Entries
			} else {
				db, err := index.OpenDB(cfg.DBPath)
				if err != nil {
					return err
				}
				defer db.Close()

				tr, err := db.GetTranscript(args[0])
				if err != nil {
					return err
				}
				if tr == nil {
					return fmt.Errorf("transcript not found: %s (run 'coachdoc index' first)", args[0])
				}
				window := context
				if window <= 0 {
					window = 1 << 30 // whole transcript
				}
				rows, hitIdx, start, total, err := db.GetEntriesWindow(args[0], hit, window)
				if err != nil {
					return fmt.Errorf("get entries: %w", err)
				}
				title, entries = tr.TranscriptKey, index.Entries(rows)
				opts.HitIndex, opts.Offset, opts.Total, opts.Context = hitIdx, start, total, 0
			}

			out, _ := render.RenderEntries(title, entries, opts)
			if noColor {
				out = render.Plain(out)
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&hit, "hit", -1, "Entry id to highlight")
	cmd.Flags().IntVar(&context, "context", 0, "Turns before/after the hit to show (0 = all)")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (default terminal width)")
	cmd.Flags().StringVar(&coach, "coach", "", "Speaker to colour as the coach")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Strip ANSI colours")

	return cmd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
