package parse

import (
	"testing"

	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triples(entries []transcript.Entry) [][3]string {
	var out [][3]string
	for _, e := range entries {
		out = append(out, [3]string{e.Speaker, e.Timestamp, e.Text})
	}
	return out
}

func TestParseDocument_TwoSpeakers(t *testing.T) {
	entries := ParseDocument([]string{"Jane Doe 1:02", "Hello there.", "John Smith 1:05", "Hi Jane!"})

	assert.Equal(t, [][3]string{
		{"Jane Doe", "1:02", "Hello there."},
		{"John Smith", "1:05", "Hi Jane!"},
	}, triples(entries))
	assert.Equal(t, 1, entries[0].Line)
	assert.Equal(t, 3, entries[1].Line)
}

func TestParseDocument_TeamsExport(t *testing.T) {
	paragraphs := []string{
		"March 4, 2025, 3:15PM",
		"",
		"Jane Doe started transcription",
		"Jane Doe   0:03\nGood morning.",
		"What would you like to work on?",
		"John Smith   0:10\nDelegation.",
		"  I keep doing everything myself.  ",
		"Jane Doe stopped transcription",
	}

	entries := ParseDocument(paragraphs)

	assert.Equal(t, [][3]string{
		{"Jane Doe", "0:03", "Good morning.\nWhat would you like to work on?"},
		{"John Smith", "0:10", "Delegation.\nI keep doing everything myself."},
	}, triples(entries))
}

func TestParseDocument_NoBreakSpaceBeforeTime(t *testing.T) {
	entries := ParseDocument([]string{"Jane Doe\u00a01:02", "Hello."})

	assert.Equal(t, [][3]string{{"Jane Doe", "1:02", "Hello."}}, triples(entries))
}

func TestParseDocument_OnlyFirstHeaderSkipped(t *testing.T) {
	entries := ParseDocument([]string{
		"March 4, 2025, 3:15PM",
		"Jane Doe 0:01",
		"Hi.",
		"March 4, 2025, 3:45PM",
		"Still Jane.",
	})

	for _, e := range entries {
		assert.NotContains(t, e.Text, "March 4, 2025, 3:15PM")
	}
	// the second header is an ordinary line and matches the turn pattern
	require.Len(t, entries, 2)
	assert.Equal(t, "March 4, 2025,", entries[1].Speaker)
	assert.Equal(t, "3:45", entries[1].Timestamp)
	assert.Equal(t, "PM\nStill Jane.", entries[1].Text)
}

func TestParseDocument_LinesBeforeFirstTurnDropped(t *testing.T) {
	entries := ParseDocument([]string{"Coaching session", "Recorded by Teams", "Jane Doe 0:01", "Welcome."})

	assert.Equal(t, [][3]string{{"Jane Doe", "0:01", "Welcome."}}, triples(entries))
}

func TestParseDocument_SameSpeakerNotMerged(t *testing.T) {
	entries := ParseDocument([]string{"Jane Doe 0:01", "One.", "Jane Doe 0:04", "Two."})

	assert.Equal(t, [][3]string{
		{"Jane Doe", "0:01", "One."},
		{"Jane Doe", "0:04", "Two."},
	}, triples(entries))
}

func TestParseDocument_TurnWithoutTextDropped(t *testing.T) {
	entries := ParseDocument([]string{"Jane Doe 0:01", "John Smith 0:02", "Hello."})

	assert.Equal(t, [][3]string{{"John Smith", "0:02", "Hello."}}, triples(entries))
}

func TestParseDocument_NBoundariesNEntries(t *testing.T) {
	var paragraphs []string
	speakers := []string{"Jane Doe", "John Smith", "Ana María", "Jane Doe", "John Smith"}
	for i, s := range speakers {
		paragraphs = append(paragraphs, s+" 1:0"+string(rune('0'+i))+"\nturn "+string(rune('a'+i)))
	}

	entries := ParseDocument(paragraphs)

	require.Len(t, entries, len(speakers))
	for i, e := range entries {
		assert.Equal(t, speakers[i], e.Speaker)
		assert.Equal(t, "turn "+string(rune('a'+i)), e.Text)
	}
}

func TestParseDocument_NoTurns(t *testing.T) {
	assert.Empty(t, ParseDocument([]string{"Agenda", "1. Goals", "2. Obstacles"}))
	assert.Empty(t, ParseDocument(nil))
}

func TestParseDocument_Idempotent(t *testing.T) {
	paragraphs := []string{"March 4, 2025, 3:15PM", "Jane Doe 1:02", "Hello there.", "John Smith 1:05", "Hi Jane!"}
	assert.Equal(t, ParseDocument(paragraphs), ParseDocument(paragraphs))
}
