package parse

import (
	"strings"

	"github.com/Zuo-Peng/coachdoc/internal/transcript"
)

// SourceLine is a non-blank, trimmed line with its 1-based position in the file.
type SourceLine struct {
	N    int
	Text string
}

type lineClass int

const (
	classOther lineClass = iota
	classTiming
	classSpeaker
)

func classify(line string) lineClass {
	switch {
	case isTimingLine(line):
		return classTiming
	case isSpeakerTagged(line):
		return classSpeaker
	default:
		return classOther
	}
}

type captionState int

const (
	stateNoTurn captionState = iota
	stateTurnOpen
)

// captionScanner walks caption lines with one line of lookahead.
//
// A streak starts at the first timing line that carries a time and only
// restarts when the speaker changes, so a multi-cue utterance keeps the
// timestamp of its first cue.
type captionScanner struct {
	lines    []SourceLine
	pos      int
	streak   bool
	streakTS string
	cur      turn
	entries  []transcript.Entry
}

func (s *captionScanner) state() captionState {
	if s.cur.open() {
		return stateTurnOpen
	}
	return stateNoTurn
}

func (s *captionScanner) run() []transcript.Entry {
	for s.pos < len(s.lines) {
		if classify(s.lines[s.pos].Text) != classTiming {
			s.pos++
			continue
		}
		s.timing(s.lines[s.pos].Text)
	}
	return s.cur.flush(s.entries)
}

// timing handles a timing line at s.pos and the cue block that follows it.
func (s *captionScanner) timing(line string) {
	s.pos++

	ts, ok := cueTimestamp(line)
	if !ok {
		return
	}
	if !s.streak {
		s.streakTS = ts
		s.streak = true
	}

	if s.pos >= len(s.lines) || classify(s.lines[s.pos].Text) != classSpeaker {
		return
	}
	tagged := s.lines[s.pos]
	speaker, text, ok := matchSpeakerTag(tagged.Text)
	if !ok {
		s.pos++
		return
	}

	switch {
	case s.state() == stateTurnOpen && s.cur.speaker != speaker:
		s.entries = s.cur.flush(s.entries)
		s.streakTS = ts
		s.cur = turn{speaker: speaker, timestamp: ts, line: tagged.N}
	case s.state() == stateNoTurn:
		s.cur = turn{speaker: speaker, timestamp: s.streakTS, line: tagged.N}
	default:
		s.cur.timestamp = s.streakTS
	}
	s.cur.lines = append(s.cur.lines, text)

	// rolling captions repeat the cue text; keep only the tagged line
	s.pos++
	for s.pos < len(s.lines) && classify(s.lines[s.pos].Text) == classOther {
		s.pos++
	}
}

// ParseCaptionLines converts numbered caption lines into entries.
func ParseCaptionLines(lines []SourceLine) []transcript.Entry {
	s := &captionScanner{lines: lines}
	return s.run()
}

// ParseCaptions converts raw caption lines into entries. Lines are trimmed
// and blank lines dropped before scanning.
func ParseCaptions(lines []string) []transcript.Entry {
	src := make([]SourceLine, 0, len(lines))
	for i, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		src = append(src, SourceLine{N: i + 1, Text: l})
	}
	return ParseCaptionLines(src)
}
