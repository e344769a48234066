package server

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zuo-Peng/coachdoc/internal/parse"
	"github.com/Zuo-Peng/coachdoc/internal/review"
	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func apiError(c *fiber.Ctx, status int, msg, code string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
		"code":  code,
	})
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"uploads": s.store.Len(),
	})
}

func (s *Server) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "No file uploaded", "ERR_NO_FILE")
	}

	maxSize := int64(s.opts.MaxUploadMB) * 1024 * 1024
	if file.Size > maxSize {
		return apiError(c, fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("File too large (max %dMB)", s.opts.MaxUploadMB), "ERR_FILE_TOO_LARGE")
	}

	format, err := transcript.FormatForPath(file.Filename)
	if err != nil {
		return apiError(c, fiber.StatusUnsupportedMediaType,
			"Unsupported file type. Only .vtt and .docx are accepted.", "ERR_UNSUPPORTED_TYPE")
	}

	id := uuid.New().String()
	tempPath := filepath.Join(s.opts.TempDir, id+filepath.Ext(file.Filename))
	if err := c.SaveFile(file, tempPath); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("save upload")
		return apiError(c, fiber.StatusInternalServerError, "Failed to save file", "ERR_SAVE_FAILED")
	}
	defer os.Remove(tempPath)

	result, err := parse.ParseFile(tempPath, parse.Options{Encoding: s.opts.Encoding})
	switch {
	case errors.Is(err, transcript.ErrNoEntries):
		return apiError(c, fiber.StatusUnprocessableEntity,
			"No transcript entries parsed. Please check the file formatting.", "ERR_NO_ENTRIES")
	case err != nil:
		s.log.Warn().Err(err).Str("id", id).Str("filename", file.Filename).Msg("parse upload")
		return apiError(c, fiber.StatusUnprocessableEntity, "Failed to read transcript", "ERR_PARSE_FAILED")
	}

	u := &Upload{
		ID:        id,
		Filename:  filepath.Base(file.Filename),
		Format:    format,
		Speakers:  result.Meta.Speakers,
		Entries:   result.Entries,
		CreatedAt: time.Now(),
	}
	s.store.Put(u)
	s.log.Info().Str("id", id).Str("format", string(format)).Int("entries", len(u.Entries)).Msg("transcript parsed")

	return c.Status(fiber.StatusCreated).JSON(u)
}

func (s *Server) get(c *fiber.Ctx) error {
	u, ok := s.store.Get(c.Params("id"))
	if !ok {
		return apiError(c, fiber.StatusNotFound, "Transcript not found", "ERR_NOT_FOUND")
	}
	return c.JSON(u)
}

func (s *Server) document(c *fiber.Ctx) error {
	u, ok := s.store.Get(c.Params("id"))
	if !ok {
		return apiError(c, fiber.StatusNotFound, "Transcript not found", "ERR_NOT_FOUND")
	}

	coach := strings.TrimSpace(c.FormValue("coach"))
	if err := transcript.ValidateCoach(u.Entries, coach); err != nil {
		return apiError(c, fiber.StatusBadRequest,
			fmt.Sprintf("%q is not a speaker in this transcript", coach), "ERR_UNKNOWN_SPEAKER")
	}

	doc := review.Build(u.Entries, review.Options{Coach: coach, Layout: s.opts.Layout})
	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		s.log.Error().Err(err).Str("id", u.ID).Msg("write document")
		return apiError(c, fiber.StatusInternalServerError, "Failed to build document", "ERR_BUILD_FAILED")
	}

	c.Attachment(downloadName(c.FormValue("filename"), u.Filename, s.opts.Suffix))
	c.Set(fiber.HeaderContentType, docxContentType)
	return c.Send(buf.Bytes())
}

// downloadName is the requested name, or the upload's base name with suffix.
// The result always ends in .docx.
func downloadName(requested, uploaded, suffix string) string {
	name := filepath.Base(strings.TrimSpace(requested))
	if name == "." || name == "/" || name == "" {
		name = filepath.Base(review.OutputPath(uploaded, suffix))
	}
	if !strings.HasSuffix(strings.ToLower(name), ".docx") {
		name += ".docx"
	}
	return name
}
