package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	"github.com/mattn/go-runewidth"
)

const (
	colorReset   = "\033[0m"
	colorCoach   = "\033[1;34m" // bold blue
	colorClient  = "\033[1;32m" // bold green
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
)

type Options struct {
	Coach    string
	Query    string // search query for keyword highlighting
	Width    int    // wrap width (0 = no wrap)
	HitIndex int    // index into entries of the turn to mark, -1 for none
	Context  int    // turns before/after the hit to show, 0 = all
	Offset   int    // number of turns preceding entries[0] in the transcript
	Total    int    // total turns in the transcript, 0 = Offset+len(entries)
}

// fts5Operators are FTS5 operators that should not be highlighted as keywords.
var fts5Operators = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "NEAR": true,
	"and": true, "or": true, "not": true, "near": true,
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red ANSI codes.
func highlightKeywords(text, query string) string {
	if query == "" {
		return text
	}
	var filtered []string
	for _, t := range strings.Fields(query) {
		t = strings.Trim(t, `"*()`)
		if t != "" && !fts5Operators[t] {
			filtered = append(filtered, t)
		}
	}
	for _, term := range filtered {
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			if pos+len(term) > len(text) {
				break
			}
			replacement := colorBoldRed + text[pos:pos+len(term)] + colorReset
			text = text[:pos] + replacement + text[pos+len(term):]
			i = pos + len(replacement)
		}
	}
	return text
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// window narrows entries to Context turns around the hit.
func window(entries []transcript.Entry, opts Options) ([]transcript.Entry, Options) {
	if opts.Context <= 0 || opts.HitIndex < 0 || opts.HitIndex >= len(entries) {
		return entries, opts
	}
	start := max(opts.HitIndex-opts.Context, 0)
	end := min(opts.HitIndex+opts.Context+1, len(entries))
	opts.Offset += start
	opts.HitIndex -= start
	return entries[start:end], opts
}

// RenderEntries renders transcript turns for a terminal and returns the
// content and the 0-based line of the hit turn header (-1 if no hit).
func RenderEntries(title string, entries []transcript.Entry, opts Options) (string, int) {
	if opts.Total == 0 {
		opts.Total = opts.Offset + len(entries)
	}
	if opts.Total == 0 {
		return "(empty transcript)", -1
	}
	entries, opts = window(entries, opts)
	skipAfter := opts.Total - opts.Offset - len(entries)

	var b strings.Builder
	hitLine := -1
	lineCount := 0
	separator := colorDim + strings.Repeat("-", 50) + colorReset

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	if title != "" {
		writeLine(fmt.Sprintf("%s--- %s (%d turns) ---%s", colorDim, title, opts.Total, colorReset))
	}

	if opts.Offset > 0 {
		writeLine(fmt.Sprintf("%s... (%d turns before) ...%s", colorDim, opts.Offset, colorReset))
	}

	for i, e := range entries {
		isHit := i == opts.HitIndex
		if i > 0 {
			writeLine(separator)
		}
		if isHit {
			hitLine = lineCount
		}

		role := transcript.Role(e.Speaker, opts.Coach)
		roleColor := colorClient
		if role == "Coach" {
			roleColor = colorCoach
		}
		n := opts.Offset + i + 1

		if isHit {
			writeLine(fmt.Sprintf("%s>> %d %s %s [%s] <<%s", colorHit, n, role, e.Speaker, e.Timestamp, colorReset))
		} else {
			writeLine(fmt.Sprintf("%s%d %s %s%s %s[%s]%s", roleColor, n, role, e.Speaker, colorReset, colorDim, e.Timestamp, colorReset))
		}

		text := indentLines(highlightKeywords(e.Text, opts.Query), "  ")
		for _, tl := range strings.Split(text, "\n") {
			writeLine(tl)
		}
		writeLine("")
	}

	if skipAfter > 0 {
		writeLine(fmt.Sprintf("%s... (%d turns after) ...%s", colorDim, skipAfter, colorReset))
	}

	return b.String(), hitLine
}

// Plain strips ANSI colour sequences, for piped output.
func Plain(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
