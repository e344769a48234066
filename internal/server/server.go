// Package server exposes the transcript formatter over HTTP: upload a caption
// or document export, inspect its speakers, then download the review document
// for a chosen coach.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Zuo-Peng/coachdoc/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

const (
	DefaultUploadTTL = time.Hour
	janitorInterval  = 5 * time.Minute
)

type Options struct {
	TempDir     string
	MaxUploadMB int
	Encoding    string // caption file encoding
	Suffix      string // appended to the upload's base name for downloads
	Layout      config.Document
	UploadTTL   time.Duration
	Log         zerolog.Logger
}

type Server struct {
	opts  Options
	store *Store
	app   *fiber.App
	log   zerolog.Logger
}

func New(opts Options) *Server {
	if opts.MaxUploadMB <= 0 {
		opts.MaxUploadMB = 25
	}
	if opts.UploadTTL <= 0 {
		opts.UploadTTL = DefaultUploadTTL
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}

	s := &Server{
		opts:  opts,
		store: NewStore(),
		log:   opts.Log.With().Str("component", "server").Logger(),
	}

	app := fiber.New(fiber.Config{
		// uploads above MaxUploadMB are rejected by the handler with a JSON
		// error; the slack keeps fiber from cutting the request first
		BodyLimit:             (opts.MaxUploadMB + 1) * 1024 * 1024,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	app.Use(recover.New())
	app.Use(requestLogger(s.log))

	app.Get("/healthz", s.health)
	api := app.Group("/api")
	api.Post("/transcripts", s.upload)
	api.Get("/transcripts/:id", s.get)
	api.Post("/transcripts/:id/document", s.document)

	s.app = app
	return s
}

// App returns the underlying fiber app, for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := os.MkdirAll(s.opts.TempDir, 0o755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.store.RunJanitor(ctx, janitorInterval, s.opts.UploadTTL, s.log)

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errc <- s.app.Listen(addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.log.Info().Msg("shutting down")
		return s.app.ShutdownWithTimeout(5 * time.Second)
	}
}

// handleError renders errors that escape the handlers in the same JSON shape
// the handlers use.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	errCode := "ERR_INTERNAL"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		switch code {
		case fiber.StatusNotFound:
			errCode = "ERR_NOT_FOUND"
		case fiber.StatusRequestEntityTooLarge:
			errCode = "ERR_FILE_TOO_LARGE"
		default:
			errCode = "ERR_REQUEST"
		}
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  errCode,
	})
}

func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= 500 {
			ev = log.Error().Err(err)
		} else if status >= 400 {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
		return nil
	}
}
