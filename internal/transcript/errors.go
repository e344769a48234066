package transcript

import "errors"

var (
	// ErrUnsupportedType indicates the file extension is neither .docx nor .vtt.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrMissingInput indicates the transcript file does not exist.
	ErrMissingInput = errors.New("file not found")

	// ErrNoEntries indicates the parser ran but found no speaker turns.
	ErrNoEntries = errors.New("no transcript entries parsed")

	// ErrUnknownSpeaker indicates the selected coach never speaks in the transcript.
	ErrUnknownSpeaker = errors.New("unknown speaker")
)
