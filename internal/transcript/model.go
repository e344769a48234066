package transcript

import (
	"path/filepath"
	"sort"
	"strings"
)

type Format string

const (
	FormatDocument Format = "docx" // rich-text export, speaker and time on one line
	FormatCaptions Format = "vtt"  // caption export with <v Speaker> tags
)

// Entry is one completed speaker turn.
type Entry struct {
	Speaker   string `json:"speaker" yaml:"speaker"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Text      string `json:"text" yaml:"text"`
	Line      int    `json:"line" yaml:"line"` // 1-based paragraph or file line where the turn started
}

// FormatForPath picks the transcript format strictly by file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return FormatDocument, nil
	case ".vtt":
		return FormatCaptions, nil
	default:
		return "", ErrUnsupportedType
	}
}

// Speakers returns the distinct speaker labels in sorted order.
func Speakers(entries []Entry) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entries {
		if _, ok := seen[e.Speaker]; ok {
			continue
		}
		seen[e.Speaker] = struct{}{}
		out = append(out, e.Speaker)
	}
	sort.Strings(out)
	return out
}

// TurnCounts returns how many entries each speaker has.
func TurnCounts(entries []Entry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Speaker]++
	}
	return counts
}

// ValidateCoach checks that coach is one of the observed speakers.
// An empty coach is allowed and labels every turn as the client's.
func ValidateCoach(entries []Entry, coach string) error {
	if coach == "" {
		return nil
	}
	for _, e := range entries {
		if e.Speaker == coach {
			return nil
		}
	}
	return ErrUnknownSpeaker
}

// Role returns "Coach" for the coach's turns and "Client" otherwise.
func Role(speaker, coach string) string {
	if coach != "" && speaker == coach {
		return "Coach"
	}
	return "Client"
}
