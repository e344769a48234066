package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Zuo-Peng/coachdoc/internal/server"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP upload service",
		Long: `Serves a small JSON API: upload a transcript export, inspect its speakers,
then download the review document for the chosen coach.

  POST /api/transcripts                 multipart field "file"
  GET  /api/transcripts/:id
  POST /api/transcripts/:id/document    form fields "coach", "filename"
  GET  /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}

			srv := server.New(server.Options{
				TempDir:     cfg.Serve.TempDir,
				MaxUploadMB: cfg.Serve.MaxUploadMB,
				Encoding:    cfg.Encoding,
				Suffix:      cfg.OutputSuffix,
				Layout:      cfg.Document,
				Log:         log,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	return cmd
}
