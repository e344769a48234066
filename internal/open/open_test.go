package open

import (
	"path/filepath"
	"testing"

	"github.com/Zuo-Peng/coachdoc/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorArgs(t *testing.T) {
	tests := []struct {
		editor string
		want   []string
	}{
		{"nvim", []string{"nvim", "+12", "a.vtt"}},
		{"/usr/bin/vim", []string{"/usr/bin/vim", "+12", "a.vtt"}},
		{"code", []string{"code", "--goto", "a.vtt:12"}},
		{"less", []string{"less", "+12", "a.vtt"}},
		{"nano", []string{"nano", "a.vtt"}},
	}
	for _, tt := range tests {
		t.Run(tt.editor, func(t *testing.T) {
			assert.Equal(t, tt.want, editorArgs(tt.editor, "a.vtt", 12))
		})
	}
}

func TestOpenEntryUnknownKey(t *testing.T) {
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "o.db"))
	require.NoError(t, err)
	defer db.Close()

	err = OpenEntry(db, "vtt:missing", 0)
	assert.ErrorContains(t, err, "transcript not found")
}
