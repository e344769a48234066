package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Zuo-Peng/coachdoc/internal/config"
	"github.com/Zuo-Peng/coachdoc/internal/logging"
	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "dev"

var (
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "coachdoc",
		Short:         "Turn Teams meeting transcripts into coaching review documents",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/coachdoc/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(formatCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(speakersCmd())
	rootCmd.AddCommand(entriesCmd())
	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(doctorCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
}

// loadEnv reads the config and builds the logger every command shares.
func loadEnv() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logging.New(logging.Config{Level: level, JSON: cfg.LogJSON})
	return cfg, log, nil
}

// userMessage maps input errors to the messages users see; anything else is
// printed as is.
func userMessage(err error) string {
	switch {
	case errors.Is(err, transcript.ErrUnsupportedType):
		return "Unsupported file type. Only .vtt and .docx are accepted."
	case errors.Is(err, transcript.ErrMissingInput):
		return "File not found."
	case errors.Is(err, transcript.ErrNoEntries):
		return "No transcript entries parsed. Please check the file formatting."
	default:
		return err.Error()
	}
}

// isInteractive reports whether both stdin and stdout are terminals.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
