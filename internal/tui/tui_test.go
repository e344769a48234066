package tui

import (
	"testing"

	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var session = []transcript.Entry{
	{Speaker: "Bob Client", Timestamp: "0:01", Text: "Hi."},
	{Speaker: "Jane Coach", Timestamp: "0:05", Text: "Welcome back."},
	{Speaker: "Bob Client", Timestamp: "0:09", Text: "Thanks."},
	{Speaker: "Amy Observer", Timestamp: "1:10", Text: "Just listening."},
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func typeText(t *testing.T, m model, s string) model {
	t.Helper()
	for _, r := range s {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestSpeakerItems(t *testing.T) {
	items := speakerItems(session)
	require.Len(t, items, 3)
	assert.Equal(t, speakerItem{name: "Amy Observer", turns: 1, firstTS: "1:10"}, items[0])
	assert.Equal(t, speakerItem{name: "Bob Client", turns: 2, firstTS: "0:01"}, items[1])
	assert.Equal(t, speakerItem{name: "Jane Coach", turns: 1, firstTS: "0:05"}, items[2])
}

func TestPickerChoose(t *testing.T) {
	m := initialModel("vtt:s", session, "")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "Jane Coach", m.chosen)
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestPickerInitialSelection(t *testing.T) {
	m := initialModel("vtt:s", session, "Bob Client")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Bob Client", m.chosen)
}

func TestPickerFilter(t *testing.T) {
	m := initialModel("vtt:s", session, "")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m = typeText(t, m, "JANE")
	require.Len(t, m.visible, 1)
	assert.Equal(t, "Jane Coach", m.visible[0].name)

	m = typeText(t, m, "x")
	assert.Empty(t, m.visible)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.chosen, "nothing to choose")
}

func TestPickerCancel(t *testing.T) {
	m := initialModel("vtt:s", session, "")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.quitting)
	assert.Empty(t, m.chosen)
	require.NotNil(t, cmd)
}

func TestPreviewRendered(t *testing.T) {
	m := initialModel("vtt:s", session, "Jane Coach")
	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	require.NotNil(t, cmd)

	msg, ok := cmd().(previewRenderedMsg)
	require.True(t, ok)
	assert.Equal(t, "Jane Coach", msg.coach)
	assert.Contains(t, msg.content, "Coach Jane Coach")
	assert.Greater(t, msg.hitLine, 0)

	m, _ = update(t, m, msg)
	assert.Equal(t, previewCacheKey("Jane Coach", m.previewWidth()), m.previewKey)
	assert.Nil(t, m.loadCurrentPreview(), "already showing")

	// a preview for a speaker no longer under the cursor is dropped
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = update(t, m, msg)
	assert.Equal(t, previewCacheKey("Jane Coach", m.previewWidth()), m.previewKey)
}

func TestPickCoachNoEntries(t *testing.T) {
	_, err := PickCoach("x", nil, "")
	assert.ErrorIs(t, err, transcript.ErrNoEntries)
}
