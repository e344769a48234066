package parse

import (
	"regexp"
	"strings"
)

// Boundary rules. Each rule is a predicate or an extractor over one trimmed
// line so it can be tested on its own.

// ws matches Unicode spacing as well as ASCII whitespace. Exports from
// Word often carry U+00A0 between the speaker and the time.
const ws = `[\s\p{Z}]`

var (
	// session header at the top of a document export: "March 4, 2025, 3:15PM"
	sessionHeaderRe = regexp.MustCompile(`^(January|February|March|April|May|June|July|August|September|October|November|December)` + ws + `+\d{1,2},` + ws + `+\d{4},?` + ws + `+\d{1,2}:\d{2}(?:` + ws + `*[APMapm]{2})?$`)

	// "<speaker> <H:MM>" optionally followed by the first line of the turn.
	// The speaker part is greedy so labels may contain anything before the
	// last time token.
	turnStartRe = regexp.MustCompile(`(?s)^(.*)` + ws + `+(\d{1,2}:\d{2})\n?(.*)`)

	shortTimeRe  = regexp.MustCompile(`\d{2}:\d{2}`)
	speakerTagRe = regexp.MustCompile(`^<v` + ws + `+([^>]+)>(.*)`)
)

const (
	stoppedMarker  = "stopped transcription"
	timingArrow    = "-->"
	speakerTagOpen = "<v "
	speakerTagEnd  = "</v>"

	// cue start times are cut to their last 8 runes for display
	cueTimestampWidth = 8
)

// isFooterArtifact reports lines that never belong to a turn.
func isFooterArtifact(line string) bool {
	return strings.Contains(strings.ToLower(line), stoppedMarker)
}

func isSessionHeader(line string) bool {
	return sessionHeaderRe.MatchString(line)
}

// matchTurnStart splits a document line into speaker, time and the text that
// follows the time token.
func matchTurnStart(line string) (speaker, timestamp, rest string, ok bool) {
	m := turnStartRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), strings.TrimSpace(m[3]), true
}

func isTimingLine(line string) bool {
	return strings.Contains(line, timingArrow)
}

// cueTimestamp extracts the display timestamp from a timing line. ok is false
// when the start side carries no MM:SS token.
func cueTimestamp(line string) (timestamp string, ok bool) {
	start, _, _ := strings.Cut(line, timingArrow)
	start = strings.TrimSpace(start)
	if r := []rune(start); len(r) > cueTimestampWidth {
		timestamp = string(r[len(r)-cueTimestampWidth:])
	} else {
		timestamp = start
	}
	return timestamp, shortTimeRe.MatchString(start)
}

func isSpeakerTagged(line string) bool {
	return strings.HasPrefix(line, speakerTagOpen)
}

// matchSpeakerTag extracts the voice label and the caption text that follows it.
func matchSpeakerTag(line string) (speaker, text string, ok bool) {
	m := speakerTagRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	speaker = strings.TrimSpace(m[1])
	if speaker == "" {
		return "", "", false
	}
	return speaker, strings.TrimSpace(strings.ReplaceAll(m[2], speakerTagEnd, "")), true
}
