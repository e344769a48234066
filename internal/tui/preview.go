package tui

import (
	"github.com/Zuo-Peng/coachdoc/internal/render"
	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	coach   string
	width   int
	content string
	hitLine int
}

// loadPreviewCmd renders the transcript with coach as the coach, scrolled to
// their first turn.
func loadPreviewCmd(title string, entries []transcript.Entry, coach string, width int) tea.Cmd {
	return func() tea.Msg {
		hit := -1
		for i, e := range entries {
			if e.Speaker == coach {
				hit = i
				break
			}
		}
		content, hitLine := render.RenderEntries(title, entries, render.Options{
			Coach:    coach,
			HitIndex: hit,
			Width:    width,
		})
		return previewRenderedMsg{coach: coach, width: width, content: content, hitLine: hitLine}
	}
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
