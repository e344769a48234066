package main

import (
	"fmt"
	"strings"

	"github.com/Zuo-Peng/coachdoc/internal/index"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed transcripts, newest first",
		Long: `Prints one TSV line per indexed transcript:
  transcriptKey, modifiedAt, format, turns, speakers, summary`,
		Args: cobra.NoArgs,
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

			if _, err := runIndex(db, cfg, log); err != nil {
				log.Warn().Err(err).Msg("index refresh failed")
			}

			rows, err := db.ListTranscripts(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range rows {
				fmt.Fprintf(out, "%s\t%s%s%s\t%s\t%d\t%s\t%s\n",
					t.TranscriptKey,
					sColorDim, t.ModifiedAt, sColorReset,
					t.Format,
					t.EntryCount,
					strings.Join(t.Speakers, ", "),
					flatten(t.Summary),
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Max transcripts (0 = no limit)")

	return cmd
}
