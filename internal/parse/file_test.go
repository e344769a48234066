package parse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Zuo-Peng/coachdoc/internal/docx"
	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestParseFile_Captions(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "2025/march.VTT", []byte("\ufeff"+teamsVTT))

	result, err := ParseFile(path, Options{Root: dir})
	require.NoError(t, err)

	assert.Equal(t, transcript.FormatCaptions, result.Meta.Format)
	assert.Equal(t, "vtt:2025/march", result.Meta.TranscriptKey)
	assert.Equal(t, []string{"Jane Doe", "John Smith"}, result.Meta.Speakers)
	assert.Equal(t, "Good morning, thanks for joining. What would you like to focus on today?", result.Meta.Summary)
	assert.Len(t, result.Entries, 3)
	assert.Equal(t, 5, result.Entries[0].Line)
}

func TestParseFile_CaptionsUTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte("WEBVTT\r\n\r\n00:00:01.000 --> 00:00:02.000\r\n<v José>¿Qué tal?</v>\r\n"))
	require.NoError(t, err)
	path := writeFile(t, t.TempDir(), "session.vtt", data)

	result, err := ParseFile(path, Options{Encoding: "utf-16"})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "José", result.Entries[0].Speaker)
	assert.Equal(t, "¿Qué tal?", result.Entries[0].Text)
}

func TestParseFile_Document(t *testing.T) {
	doc := docx.New()
	doc.AddParagraph(docx.Run{Text: "March 4, 2025, 3:15PM"})
	doc.AddParagraph(docx.Run{Text: "Jane Doe   1:02\nHello there."})
	doc.AddParagraph(docx.Run{Text: "John Smith   1:05\nHi Jane!"})
	doc.AddParagraph(docx.Run{Text: "Jane Doe stopped transcription"})

	path := filepath.Join(t.TempDir(), "session.docx")
	require.NoError(t, doc.Save(path))

	result, err := ParseFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, transcript.FormatDocument, result.Meta.Format)
	assert.Equal(t, "docx:session", result.Meta.TranscriptKey)
	assert.Equal(t, [][3]string{
		{"Jane Doe", "1:02", "Hello there."},
		{"John Smith", "1:05", "Hi Jane!"},
	}, triples(result.Entries))
	assert.Equal(t, 2, result.Entries[0].Line)
}

func TestParseFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ParseFile(writeFile(t, dir, "notes.txt", []byte("Jane Doe 1:02\nHi")), Options{})
	assert.ErrorIs(t, err, transcript.ErrUnsupportedType)

	_, err = ParseFile(filepath.Join(dir, "missing.vtt"), Options{})
	assert.ErrorIs(t, err, transcript.ErrMissingInput)

	result, err := ParseFile(writeFile(t, dir, "empty.vtt", []byte("WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nno speaker\n")), Options{})
	assert.ErrorIs(t, err, transcript.ErrNoEntries)
	require.NotNil(t, result)
	assert.Empty(t, result.Entries)

	_, err = ParseFile(writeFile(t, dir, "broken.docx", []byte("not a zip")), Options{})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, transcript.ErrNoEntries)

	_, err = ParseFile(writeFile(t, dir, "latin.vtt", []byte("WEBVTT")), Options{Encoding: "klingon"})
	assert.Error(t, err)
}

func TestTranscriptKey(t *testing.T) {
	assert.Equal(t, "vtt:a/b", TranscriptKey("/root/t/a/b.vtt", "/root/t", transcript.FormatCaptions))
	assert.Equal(t, "docx:b", TranscriptKey("/elsewhere/b.docx", "/root/t", transcript.FormatDocument))
	assert.Equal(t, "docx:b", TranscriptKey("/elsewhere/b.docx", "", transcript.FormatDocument))
}

func TestTranscriptKey_DotPrefixedDirInsideRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "t")
	path := filepath.Join(root, "..notes", "x.vtt")

	assert.Equal(t, "vtt:..notes/x", TranscriptKey(path, root, transcript.FormatCaptions))
	assert.Equal(t, "vtt:x", TranscriptKey(filepath.Join(root, "..", "x.vtt"), root, transcript.FormatCaptions))
}

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"", "UTF-8", "utf-16le", "windows-1252", "latin1"} {
		_, err := LookupEncoding(name)
		assert.NoError(t, err, name)
	}
	_, err := LookupEncoding("ebcdic")
	assert.Error(t, err)
}
