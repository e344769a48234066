package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var entries = []Entry{
	{Speaker: "John Smith", Timestamp: "0:05", Text: "Hi."},
	{Speaker: "Jane Doe", Timestamp: "0:01", Text: "Hello."},
	{Speaker: "John Smith", Timestamp: "0:09", Text: "Again."},
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  error
	}{
		{"session.vtt", FormatCaptions, nil},
		{"/tmp/Session.DOCX", FormatDocument, nil},
		{"session.txt", "", ErrUnsupportedType},
		{"session.docx.bak", "", ErrUnsupportedType},
		{"vtt", "", ErrUnsupportedType},
	}
	for _, tt := range tests {
		got, err := FormatForPath(tt.path)
		assert.Equal(t, tt.want, got, tt.path)
		assert.ErrorIs(t, err, tt.err, tt.path)
	}
}

func TestSpeakers(t *testing.T) {
	assert.Equal(t, []string{"Jane Doe", "John Smith"}, Speakers(entries))
	assert.Empty(t, Speakers(nil))
}

func TestTurnCounts(t *testing.T) {
	assert.Equal(t, map[string]int{"Jane Doe": 1, "John Smith": 2}, TurnCounts(entries))
}

func TestValidateCoach(t *testing.T) {
	assert.NoError(t, ValidateCoach(entries, "Jane Doe"))
	assert.NoError(t, ValidateCoach(entries, ""))
	assert.ErrorIs(t, ValidateCoach(entries, "jane doe"), ErrUnknownSpeaker)
}

func TestRole(t *testing.T) {
	assert.Equal(t, "Coach", Role("Jane Doe", "Jane Doe"))
	assert.Equal(t, "Client", Role("John Smith", "Jane Doe"))
	assert.Equal(t, "Client", Role("Jane Doe", ""))
}
