package open

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/coachdoc/internal/index"
	"github.com/Zuo-Peng/coachdoc/internal/transcript"
)

// OpenEntry opens the source file of an indexed transcript. Caption files go
// to $EDITOR at the entry's line; documents go to the system opener.
func OpenEntry(db *index.DB, key string, entryID int) error {
	tr, err := db.GetTranscript(key)
	if err != nil {
		return fmt.Errorf("get transcript: %w", err)
	}
	if tr == nil {
		return fmt.Errorf("transcript not found: %s", key)
	}

	if _, err := os.Stat(tr.FilePath); err != nil {
		return fmt.Errorf("%s: %w", tr.FilePath, transcript.ErrMissingInput)
	}

	if transcript.Format(tr.Format) == transcript.FormatDocument {
		return run(systemOpener(), tr.FilePath)
	}

	lineNum := 1
	if entryID >= 0 {
		rows, _, _, _, err := db.GetEntriesWindow(key, entryID, 0)
		if err == nil {
			for _, e := range rows {
				if e.EntryID == entryID && e.LineNumber > 0 {
					lineNum = e.LineNumber
				}
			}
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}
	return run(editorArgs(editor, tr.FilePath, lineNum)...)
}

func systemOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

func editorArgs(editor, filePath string, lineNum int) []string {
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		return []string{editor, fmt.Sprintf("+%d", lineNum), filePath}
	case strings.Contains(editor, "code"):
		return []string{editor, "--goto", filePath + ":" + strconv.Itoa(lineNum)}
	case strings.Contains(editor, "less"):
		return []string{editor, "+" + strconv.Itoa(lineNum), filePath}
	default:
		return []string{editor, filePath}
	}
}

func run(args ...string) error {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
