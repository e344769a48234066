package parse

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/coachdoc/internal/docx"
	"github.com/Zuo-Peng/coachdoc/internal/transcript"
)

const maxLineSize = 1024 * 1024 // 1MB
const maxSummary = 200

// ParseFile reads a transcript export and converts it into entries, choosing
// the parser by extension. A file that yields no entries returns the result
// together with transcript.ErrNoEntries.
func ParseFile(filePath string, opts Options) (*ParseResult, error) {
	format, err := transcript.FormatForPath(filePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(filePath), err)
	}

	info, err := os.Stat(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", filePath, transcript.ErrMissingInput)
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", filePath, transcript.ErrMissingInput)
	}

	var entries []transcript.Entry
	switch format {
	case transcript.FormatDocument:
		paragraphs, err := docx.ReadParagraphs(filePath)
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		entries = ParseDocument(paragraphs)
	case transcript.FormatCaptions:
		lines, err := readCaptionLines(filePath, opts.Encoding)
		if err != nil {
			return nil, fmt.Errorf("read captions: %w", err)
		}
		entries = ParseCaptionLines(lines)
	}

	result := &ParseResult{
		Meta: TranscriptMeta{
			TranscriptKey: TranscriptKey(filePath, opts.Root, format),
			Format:        format,
			FilePath:      filePath,
			Speakers:      transcript.Speakers(entries),
			Mtime:         info.ModTime(),
			Size:          info.Size(),
		},
		Entries: entries,
	}
	if len(entries) == 0 {
		return result, fmt.Errorf("%s: %w", filepath.Base(filePath), transcript.ErrNoEntries)
	}

	s := entries[0].Text
	if r := []rune(s); len(r) > maxSummary {
		s = string(r[:maxSummary])
	}
	result.Meta.Summary = strings.ReplaceAll(s, "\n", " ")

	return result, nil
}

// TranscriptKey derives a stable key such as "vtt:2025/march-session".
func TranscriptKey(filePath, root string, format transcript.Format) string {
	rel := filepath.Base(filePath)
	if root != "" {
		if r, err := filepath.Rel(root, filePath); err == nil && !escapesRoot(r) {
			rel = r
		}
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return string(format) + ":" + filepath.ToSlash(rel)
}

// escapesRoot reports whether a relative path climbs out of its base. Names
// that merely start with dots, like "..notes", stay inside.
func escapesRoot(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// readCaptionLines returns the trimmed non-blank lines of a caption file.
func readCaptionLines(filePath, encoding string) ([]SourceLine, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := decodingReader(f, encoding)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []SourceLine
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, SourceLine{N: lineNum, Text: line})
	}
	return lines, scanner.Err()
}
