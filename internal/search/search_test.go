package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Zuo-Peng/coachdoc/internal/index"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionA = `WEBVTT

00:00:01.000 --> 00:00:04.000
<v Jane Coach>What would you like to focus on today?</v>

00:00:05.000 --> 00:00:09.000
<v Bob Client>My delegation goals for the quarter.</v>

00:00:10.000 --> 00:00:12.000
<v Jane Coach>What does delegation look like when it works?</v>
`

const sessionB = `WEBVTT

00:00:01.000 --> 00:00:04.000
<v Jane Coach>How was the week?</v>

00:00:05.000 --> 00:00:09.000
<v Ann Client>会議で目標を共有しました。</v>
`

func indexed(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "s.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.vtt"), []byte(sessionA), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.vtt"), []byte(sessionB), 0o644))
	_, err = index.IndexAll(db, []string{root}, index.Options{}, zerolog.Nop())
	require.NoError(t, err)
	return db
}

func TestSearchFTS(t *testing.T) {
	db := indexed(t)

	results, err := Search(db, Options{Query: "delegation"})
	require.NoError(t, err)
	require.Len(t, results, 1, "one hit per transcript")
	assert.Equal(t, "vtt:a", results[0].TranscriptKey)
	assert.Equal(t, "vtt", results[0].Format)
	assert.Contains(t, results[0].Snippet, ">>>delegation<<<")

	results, err = Search(db, Options{Query: "delegation", Speaker: "Jane Coach"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].EntryID)
	assert.Equal(t, "0:10.000", results[0].Timestamp)

	results, err = Search(db, Options{Query: "week OR delegation"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = Search(db, Options{Query: "delegation", Format: "docx"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = Search(db, Options{Query: "delegation", Since: "2999-01-01"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchCJK(t *testing.T) {
	db := indexed(t)

	results, err := Search(db, Options{Query: "目標"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "vtt:b", results[0].TranscriptKey)
	assert.Equal(t, "Ann Client", results[0].Speaker)
	assert.Contains(t, results[0].Snippet, ">>>目標<<<")
}

func TestSearchEmptyQuery(t *testing.T) {
	db := indexed(t)
	_, err := Search(db, Options{Query: "  "})
	assert.Error(t, err)
}

func TestMakeSnippet(t *testing.T) {
	assert.Equal(t, "...cdE>>>FG<<<hij...", makeSnippet("abcdEFGhijkl", "fg", 3))
	assert.Equal(t, "short", makeSnippet("short", "zzz", 10))
	assert.Equal(t, "abcd...", makeSnippet("abcdefgh", "zzz", 2))
}
