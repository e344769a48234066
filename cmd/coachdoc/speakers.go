package main

import (
	"fmt"

	"github.com/Zuo-Peng/coachdoc/internal/parse"
	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	"github.com/spf13/cobra"
)

func speakersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "speakers <file>",
		Short: "List the distinct speakers of a transcript with their turn counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadEnv()
			if err != nil {
				return err
			}
			result, err := parse.ParseFile(args[0], parse.Options{Encoding: cfg.Encoding})
			if err != nil {
				return err
			}

			counts := transcript.TurnCounts(result.Entries)
			for _, s := range result.Meta.Speakers {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", s, counts[s])
			}
			return nil
		},
	}
}
