package main

import (
	"github.com/Zuo-Peng/coachdoc/internal/index"
	"github.com/Zuo-Peng/coachdoc/internal/open"
	"github.com/spf13/cobra"
)

func openCmd() *cobra.Command {
	var entryID int

	cmd := &cobra.Command{
		Use:   "open <transcriptKey>",
		Short: "Open the source file of an indexed transcript",
		Long:  `Caption files open in $EDITOR at the entry's line; documents open in the system viewer.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadEnv()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			return open.OpenEntry(db, args[0], entryID)
		},
	}

	cmd.Flags().IntVar(&entryID, "entry", -1, "Entry id to jump to")

	return cmd
}
