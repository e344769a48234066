package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Zuo-Peng/coachdoc/internal/parse"
	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func entriesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "entries <file>",
		Short: "Print the parsed speaker turns of a transcript",
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
			return writeEntries(cmd.OutOrStdout(), result.Entries, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json, yaml, tsv")

	return cmd
}

func writeEntries(w io.Writer, entries []transcript.Entry, format string) error {
	switch format {
	case "text":
		for i, e := range entries {
			fmt.Fprintf(w, "%d [%s] %s: %s\n", i+1, e.Timestamp, e.Speaker, e.Text)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(entries)
	case "tsv":
		flat := strings.NewReplacer("\t", " ", "\n", " ")
		fmt.Fprintln(w, "speaker\ttimestamp\tline\ttext")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", flat.Replace(e.Speaker), e.Timestamp, e.Line, flat.Replace(e.Text))
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (text, json, yaml, tsv)", format)
	}
}
