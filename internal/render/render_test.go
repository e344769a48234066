package render

import (
	"strings"
	"testing"

	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(n int) []transcript.Entry {
	names := []string{"Jane Coach", "Bob Client"}
	var out []transcript.Entry
	for i := 0; i < n; i++ {
		out = append(out, transcript.Entry{
			Speaker:   names[i%2],
			Timestamp: "0:0" + string(rune('0'+i%10)),
			Text:      "turn text",
		})
	}
	return out
}

func TestRenderEntriesAll(t *testing.T) {
	out, hit := RenderEntries("vtt:session", sample(3), Options{Coach: "Jane Coach", HitIndex: -1})
	plain := Plain(out)

	assert.Equal(t, -1, hit)
	assert.Contains(t, plain, "--- vtt:session (3 turns) ---")
	assert.Contains(t, plain, "1 Coach Jane Coach [0:00]")
	assert.Contains(t, plain, "2 Client Bob Client [0:01]")
	assert.Contains(t, plain, "3 Coach Jane Coach [0:02]")
	assert.NotContains(t, plain, "before")
	assert.NotContains(t, plain, "after")
	assert.Contains(t, out, colorCoach)
}

func TestRenderEntriesWindow(t *testing.T) {
	out, hit := RenderEntries("", sample(10), Options{HitIndex: 5, Context: 1})
	plain := Plain(out)
	lines := strings.Split(plain, "\n")

	require.GreaterOrEqual(t, hit, 0)
	assert.Equal(t, ">> 6 Client Bob Client [0:05] <<", lines[hit])
	assert.Contains(t, plain, "... (4 turns before) ...")
	assert.Contains(t, plain, "... (3 turns after) ...")
	assert.NotContains(t, plain, "4 Client")
	assert.NotContains(t, plain, "8 Client")
}

func TestRenderEntriesOffset(t *testing.T) {
	out, _ := RenderEntries("", sample(2), Options{HitIndex: -1, Offset: 10, Total: 20})
	plain := Plain(out)

	assert.Contains(t, plain, "... (10 turns before) ...")
	assert.Contains(t, plain, "11 Client")
	assert.Contains(t, plain, "... (8 turns after) ...")
}

func TestRenderEntriesEmpty(t *testing.T) {
	out, hit := RenderEntries("x", nil, Options{HitIndex: -1})
	assert.Equal(t, "(empty transcript)", out)
	assert.Equal(t, -1, hit)
}

func TestHighlightKeywords(t *testing.T) {
	got := highlightKeywords("Goals AND goals", "goals AND")
	assert.Equal(t, colorBoldRed+"Goals"+colorReset+" AND "+colorBoldRed+"goals"+colorReset, got)
	assert.Equal(t, "plain", highlightKeywords("plain", ""))
}

func TestWrapLine(t *testing.T) {
	lines := wrapLine(colorDim+"abcdef"+colorReset, 4)
	require.Len(t, lines, 2)
	assert.Equal(t, "abcd", Plain(lines[0]))
	assert.Equal(t, "ef", Plain(lines[1]))

	for _, l := range wrapLine("目標を設定する", 4) {
		assert.LessOrEqual(t, runewidth.StringWidth(l), 4)
	}
	assert.Equal(t, []string{""}, wrapLine("", 10))
}
