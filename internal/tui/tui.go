package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the picker is closed without a choice.
var ErrCancelled = errors.New("coach selection cancelled")

type speakerItem struct {
	name    string
	turns   int
	firstTS string
}

type model struct {
	title       string
	entries     []transcript.Entry
	speakers    []speakerItem
	visible     []speakerItem
	query       string
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  string // "coach:width" to avoid duplicate renders
	width       int
	height      int
	ready       bool
	quitting    bool
	chosen      string
}

func speakerItems(entries []transcript.Entry) []speakerItem {
	counts := transcript.TurnCounts(entries)
	first := make(map[string]string)
	for _, e := range entries {
		if _, ok := first[e.Speaker]; !ok {
			first[e.Speaker] = e.Timestamp
		}
	}
	var items []speakerItem
	for _, name := range transcript.Speakers(entries) {
		items = append(items, speakerItem{name: name, turns: counts[name], firstTS: first[name]})
	}
	return items
}

func initialModel(title string, entries []transcript.Entry, initial string) model {
	ti := textinput.New()
	ti.Placeholder = "Filter speakers..."
	ti.Focus()
	ti.Prompt = "coach> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	items := speakerItems(entries)
	m := model{
		title:       title,
		entries:     entries,
		speakers:    items,
		visible:     items,
		filterInput: ti,
		preview:     viewport.New(0, 0),
	}
	for i, s := range items {
		if s.name == initial {
			m.cursor = i
		}
	}
	return m
}

// PickCoach shows the speakers of a transcript and returns the one chosen as
// coach. initial preselects a speaker when it is present.
func PickCoach(title string, entries []transcript.Entry, initial string) (string, error) {
	if len(entries) == 0 {
		return "", transcript.ErrNoEntries
	}
	m := initialModel(title, entries, initial)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.chosen == "" {
		return "", ErrCancelled
	}
	return fm.chosen, nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCurrentPreview())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.previewKey = ""
		m.adjustListScroll(m.panelHeight())
		return m, m.loadCurrentPreview()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if s, ok := m.current(); ok {
				m.chosen = s.name
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		// Pass remaining keys to text input
		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		if q := m.filterInput.Value(); q != m.query {
			m.query = q
			m.applyFilter()
			cmds = append(cmds, m.loadCurrentPreview())
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready || len(m.visible) == 0 {
			return m, nil
		}

		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			maxOffset := max(len(m.visible)-m.panelHeight()/linesPerItem, 0)
			if m.listOffset < maxOffset {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.visible) && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			return m, vpCmd
		}

		return m, nil

	case previewRenderedMsg:
		s, ok := m.current()
		if !ok || s.name != msg.coach || msg.width != m.previewWidth() {
			return m, nil // stale preview
		}
		m.preview.SetContent(msg.content)
		if msg.hitLine > 0 {
			m.preview.SetYOffset(msg.hitLine)
		} else {
			m.preview.GotoTop()
		}
		m.previewKey = previewCacheKey(msg.coach, msg.width)
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)
	return lipgloss.JoinVertical(lipgloss.Left, m.filterInput.View(), panels, m.statusBar())
}

// helper methods

func (m model) current() (speakerItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return speakerItem{}, false
	}
	return m.visible[m.cursor], true
}

// applyFilter narrows the list to speakers containing the query, keeping the
// cursor on the same speaker when it is still visible.
func (m *model) applyFilter() {
	prev, _ := m.current()
	q := strings.ToLower(strings.TrimSpace(m.query))

	m.visible = nil
	for _, s := range m.speakers {
		if q == "" || strings.Contains(strings.ToLower(s.name), q) {
			m.visible = append(m.visible, s)
		}
	}

	m.cursor = 0
	m.listOffset = 0
	if len(m.visible) == 0 {
		m.preview.SetContent("")
		m.previewKey = ""
	}
	for i, s := range m.visible {
		if s.name == prev.name {
			m.cursor = i
		}
	}
	m.adjustListScroll(m.panelHeight())
}

func (m model) listWidth() int {
	if m.width <= 0 {
		return 30
	}
	// 30% for list, minus border padding
	return max(m.width*30/100-4, 20)
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 70
	}
	// 70% for preview, minus border padding
	return max(m.width*70/100-4, 20)
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract input row (1) + status bar (1) + borders (4)
	return max(m.height-6, 5)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // input row (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		return regionList, m.listOffset + relY/linesPerItem
	}
	if x > listBoxRight+1 {
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	parts := []string{
		fmt.Sprintf("%d/%d speakers", len(m.visible), len(m.speakers)),
		"click/up/dn navigate",
		"scroll/C-u/C-d preview",
		"Enter choose coach",
		"Esc cancel",
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

func (m model) loadCurrentPreview() tea.Cmd {
	s, ok := m.current()
	if !ok {
		return nil
	}
	width := m.previewWidth()
	if previewCacheKey(s.name, width) == m.previewKey {
		return nil // already showing this preview
	}
	return loadPreviewCmd(m.title, m.entries, s.name, width)
}

func previewCacheKey(coach string, width int) string {
	return fmt.Sprintf("%s:%d", coach, width)
}
