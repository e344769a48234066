package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Zuo-Peng/coachdoc/internal/index"
	"github.com/Zuo-Peng/coachdoc/internal/search"
	"github.com/spf13/cobra"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorBlue    = "\033[1;34m"
	sColorGreen   = "\033[1;32m"
	sColorDim     = "\033[2m"
)

func colorizeFormat(format string) string {
	switch format {
	case "docx":
		return sColorBlue + format + sColorReset
	case "vtt":
		return sColorGreen + format + sColorReset
	default:
		return format
	}
}

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

func flatten(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ").Replace(s)
}

func searchCmd() *cobra.Command {
	var speaker, format, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across indexed transcripts",
		Long: `Search indexed transcripts using FTS5. Output is TSV for fzf integration:
  transcriptKey, entryId, modifiedAt, format, speaker [timestamp], snippet

Recommended shell function (add to .zshrc):
  cds() {
    coachdoc search "$*" | fzf \
      --ansi \
      --delimiter='\t' --with-nth=3.. \
      --preview 'coachdoc preview {1} --hit {2} --context 5 --query {q}' \
      --preview-window=right:60%:wrap \
      --bind 'enter:execute(coachdoc open {1} --entry {2})'
  }`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			// Auto-update index before searching
			if _, err := runIndex(db, cfg, log); err != nil {
				log.Warn().Err(err).Msg("index refresh failed")
			}

			results, err := search.Search(db, search.Options{
				Query:   strings.Join(args, " "),
				Speaker: speaker,
				Format:  format,
				Since:   since,
				Limit:   limit,
			})
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			for _, r := range results {
				// first two fields (transcriptKey, entryID) stay plain for fzf {1} {2}
				fmt.Printf("%s\t%d\t%s%s%s\t%s\t%s [%s]\t%s\n",
					r.TranscriptKey,
					r.EntryID,
					sColorDim, r.ModifiedAt, sColorReset,
					colorizeFormat(r.Format),
					r.Speaker, r.Timestamp,
					colorizeSnippet(flatten(r.Snippet)),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&speaker, "speaker", "", "Only turns by this speaker")
	cmd.Flags().StringVar(&format, "format", "", "Filter by format (docx/vtt)")
	cmd.Flags().StringVar(&since, "since", "", "Filter transcripts modified since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
