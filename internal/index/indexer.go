package index

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Zuo-Peng/coachdoc/internal/parse"
	"github.com/Zuo-Peng/coachdoc/internal/scan"
	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	"github.com/rs/zerolog"
)

type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

type Options struct {
	Encoding   string // caption file encoding
	SkipSuffix string // generated review documents end with this
}

func IndexAll(db *DB, roots []string, opts Options, log zerolog.Logger) (Stats, error) {
	var stats Stats

	files, err := scan.ScanRoots(opts.SkipSuffix, roots...)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	// track which files we see, for pruning
	seenKeys := make(map[string]struct{})
	// the first file to claim a key keeps it; roots are scanned in order
	keyPaths := make(map[string]string)

	for _, fi := range files {
		key := parse.TranscriptKey(fi.Path, fi.Root, fi.Format)
		if prev, ok := keyPaths[key]; ok {
			if prev != fi.Path {
				log.Warn().Str("key", key).Str("path", fi.Path).Str("kept", prev).Msg("duplicate transcript key, skipped")
			}
			stats.Skipped++
			continue
		}
		keyPaths[key] = fi.Path
		seenKeys[key] = struct{}{}

		needs, err := needsUpdate(db, key, fi.Mtime, fi.Size)
		if err != nil {
			stats.Errors++
			log.Warn().Err(err).Str("key", key).Msg("lookup failed")
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		result, err := parse.ParseFile(fi.Path, parse.Options{Encoding: opts.Encoding, Root: fi.Root})
		if err != nil {
			stats.Errors++
			ev := log.Warn()
			if errors.Is(err, transcript.ErrNoEntries) {
				ev = log.Info()
			}
			ev.Err(err).Str("path", fi.Path).Msg("parse failed")
			// drop any previously indexed version
			delete(seenKeys, key)
			continue
		}

		if err := indexTranscript(db, result); err != nil {
			stats.Errors++
			log.Warn().Err(err).Str("path", fi.Path).Msg("index failed")
			continue
		}
		log.Debug().Str("key", key).Int("entries", len(result.Entries)).Msg("indexed")
		stats.Updated++
	}

	// prune transcripts whose files no longer exist
	pruned, err := pruneTranscripts(db, seenKeys)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

func needsUpdate(db *DB, key string, mtime, size int64) (bool, error) {
	info, err := db.GetFileInfo(key)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil // new transcript
	}
	return info.Mtime != mtime || info.Size != size, nil
}

func indexTranscript(db *DB, result *parse.ParseResult) error {
	meta := result.Meta

	// delete old data first
	if err := db.DeleteTranscript(meta.TranscriptKey); err != nil {
		return err
	}

	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO transcripts (transcript_key, format, file_path, speakers, entry_count, summary, modified_at, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.TranscriptKey,
		string(meta.Format),
		meta.FilePath,
		strings.Join(meta.Speakers, speakerSep),
		len(result.Entries),
		meta.Summary,
		meta.Mtime.UTC().Format(time.RFC3339),
		meta.Mtime.Unix(),
		meta.Size,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO entries (transcript_key, entry_id, speaker, ts, text, line_number)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range result.Entries {
		if _, err := stmt.Exec(meta.TranscriptKey, i, e.Speaker, e.Timestamp, e.Text, e.Line); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func pruneTranscripts(db *DB, seenKeys map[string]struct{}) (int, error) {
	allKeys, err := db.AllTranscriptKeys()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for key := range allKeys {
		if _, ok := seenKeys[key]; !ok {
			if err := db.DeleteTranscript(key); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}

// Entries converts stored rows back into transcript entries.
func Entries(rows []EntryRow) []transcript.Entry {
	out := make([]transcript.Entry, len(rows))
	for i, r := range rows {
		out[i] = transcript.Entry{Speaker: r.Speaker, Timestamp: r.Ts, Text: r.Text, Line: r.LineNumber}
	}
	return out
}
