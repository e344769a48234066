package parse

import (
	"time"

	"github.com/Zuo-Peng/coachdoc/internal/transcript"
)

type TranscriptMeta struct {
	TranscriptKey string
	Format        transcript.Format
	FilePath      string
	Speakers      []string
	Summary       string
	Mtime         time.Time
	Size          int64
}

type ParseResult struct {
	Meta    TranscriptMeta
	Entries []transcript.Entry
}

type Options struct {
	Encoding string // caption file encoding, DefaultEncoding when empty
	Root     string // transcript keys are made relative to Root when set
}
