package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/coachdoc/internal/config"
	"github.com/Zuo-Peng/coachdoc/internal/parse"
	"github.com/Zuo-Peng/coachdoc/internal/review"
	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	"github.com/Zuo-Peng/coachdoc/internal/tui"
	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func formatCmd() *cobra.Command {
	var coach, output string
	var copyPath, noPick bool

	cmd := &cobra.Command{
		Use:   "format <file.vtt|file.docx>",
		Short: "Build a coaching review document from a transcript export",
		Long: `Parses a Teams transcript export and writes a review document next to it
(or to --output): a numbered transcript table with an empty feedback column.

The coach is taken from --coach, then the config default, then an interactive
picker when running in a terminal. Without a coach every turn is labelled Client.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}

			input := args[0]
			result, err := parse.ParseFile(input, parse.Options{Encoding: cfg.Encoding})
			if err != nil {
				return err
			}
			log.Debug().
				Str("format", string(result.Meta.Format)).
				Int("entries", len(result.Entries)).
				Strs("speakers", result.Meta.Speakers).
				Msg("parsed transcript")

			coachSet := cmd.Flags().Changed("coach")
			chosen, err := chooseCoach(result, cfg, coach, coachSet, !noPick && isInteractive(), log)
			if err != nil {
				return err
			}
			if err := transcript.ValidateCoach(result.Entries, chosen); err != nil {
				return fmt.Errorf("coach %q: %w (speakers: %v)", chosen, err, result.Meta.Speakers)
			}

			out := output
			if out == "" {
				out = review.OutputPath(input, cfg.OutputSuffix)
			}
			doc := review.Build(result.Entries, review.Options{Coach: chosen, Layout: cfg.Document})
			if err := doc.Save(out); err != nil {
				return fmt.Errorf("save %s: %w", out, err)
			}
			log.Info().Str("output", out).Str("coach", chosen).Int("rows", len(result.Entries)).Msg("review document written")

			fmt.Println(out)
			if copyPath {
				if err := clipboard.WriteAll(out); err != nil {
					log.Warn().Err(err).Msg("clipboard unavailable")
				} else {
					fmt.Fprintln(os.Stderr, "Copied path to clipboard")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&coach, "coach", "", "Speaker to label as the coach (empty = none)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default <input><output_suffix>)")
	cmd.Flags().BoolVar(&copyPath, "copy", false, "Copy the output path to the clipboard")
	cmd.Flags().BoolVar(&noPick, "no-picker", false, "Never open the interactive coach picker")

	return cmd
}

// chooseCoach resolves the coach from the flag, the config default, or the
// picker, in that order.
func chooseCoach(result *parse.ParseResult, cfg *config.Config, flag string, flagSet, interactive bool, log zerolog.Logger) (string, error) {
	if flagSet {
		return flag, nil
	}
	if cfg.Coach != "" && transcript.ValidateCoach(result.Entries, cfg.Coach) == nil {
		return cfg.Coach, nil
	}
	if interactive {
		return tui.PickCoach(result.Meta.TranscriptKey, result.Entries, cfg.Coach)
	}
	log.Warn().Msg("no coach selected, every turn is labelled Client")
	return "", nil
}
