package parse

import (
	"strings"

	"github.com/Zuo-Peng/coachdoc/internal/transcript"
)

// turn accumulates the lines of one speaker turn until it is flushed.
type turn struct {
	speaker   string
	timestamp string
	line      int
	lines     []string
}

func (t *turn) open() bool {
	return t.speaker != ""
}

// flush appends the turn to entries when it has content and resets it.
func (t *turn) flush(entries []transcript.Entry) []transcript.Entry {
	if t.open() {
		text := strings.TrimSpace(strings.Join(t.lines, "\n"))
		if text != "" {
			entries = append(entries, transcript.Entry{
				Speaker:   t.speaker,
				Timestamp: t.timestamp,
				Text:      text,
				Line:      t.line,
			})
		}
	}
	*t = turn{}
	return entries
}

// ParseDocument converts the paragraphs of a document export into entries.
// A paragraph ending its first line with an H:MM token starts a new turn;
// other paragraphs continue the open turn.
func ParseDocument(paragraphs []string) []transcript.Entry {
	var entries []transcript.Entry
	var cur turn
	headerPending := true

	for i, para := range paragraphs {
		line := strings.TrimSpace(para)
		if line == "" || isFooterArtifact(line) {
			continue
		}

		// only the first date line is the session header
		if headerPending && isSessionHeader(line) {
			headerPending = false
			continue
		}

		if speaker, ts, rest, ok := matchTurnStart(line); ok {
			entries = cur.flush(entries)
			cur = turn{
				speaker:   speaker,
				timestamp: ts,
				line:      i + 1,
				lines:     []string{rest},
			}
			continue
		}

		if cur.open() {
			cur.lines = append(cur.lines, line)
		}
	}

	return cur.flush(entries)
}
