package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS transcripts (
    transcript_key TEXT PRIMARY KEY,
    format         TEXT NOT NULL,
    file_path      TEXT NOT NULL,
    speakers       TEXT NOT NULL DEFAULT '',
    entry_count    INTEGER NOT NULL DEFAULT 0,
    summary        TEXT NOT NULL DEFAULT '',
    modified_at    TEXT NOT NULL DEFAULT '',
    mtime          INTEGER NOT NULL DEFAULT 0,
    size           INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS entries (
    transcript_key TEXT NOT NULL,
    entry_id       INTEGER NOT NULL,
    speaker        TEXT NOT NULL,
    ts             TEXT NOT NULL DEFAULT '',
    text           TEXT NOT NULL,
    line_number    INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (transcript_key, entry_id)
);

CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
    text,
    content=entries,
    content_rowid=rowid,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS entries_ai AFTER INSERT ON entries BEGIN
    INSERT INTO entries_fts(rowid, text) VALUES (new.rowid, new.text);
END;

CREATE TRIGGER IF NOT EXISTS entries_ad AFTER DELETE ON entries BEGIN
    INSERT INTO entries_fts(entries_fts, rowid, text) VALUES('delete', old.rowid, old.text);
END;

CREATE TRIGGER IF NOT EXISTS entries_au AFTER UPDATE ON entries BEGIN
    INSERT INTO entries_fts(entries_fts, rowid, text) VALUES('delete', old.rowid, old.text);
    INSERT INTO entries_fts(rowid, text) VALUES (new.rowid, new.text);
END;

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

// speakerSep joins speaker names in the transcripts table.
const speakerSep = "\x1f"

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	if err := d.migrateSchemaVersion(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

// schemaVersion should be bumped whenever parsing logic changes
// to force a full re-index.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() error {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err == nil && ver == schemaVersion {
		return nil
	}
	// force re-index by resetting all transcript mtime/size to 0
	if _, err := d.db.Exec("UPDATE transcripts SET mtime = 0, size = 0"); err != nil {
		return err
	}
	_, err = d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	return err
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

type FileInfo struct {
	Mtime int64
	Size  int64
}

func (d *DB) GetFileInfo(key string) (*FileInfo, error) {
	var info FileInfo
	err := d.db.QueryRow(
		"SELECT mtime, size FROM transcripts WHERE transcript_key = ?",
		key,
	).Scan(&info.Mtime, &info.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (d *DB) AllTranscriptKeys() (map[string]struct{}, error) {
	rows, err := d.db.Query("SELECT transcript_key FROM transcripts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys[k] = struct{}{}
	}
	return keys, rows.Err()
}

func (d *DB) DeleteTranscript(key string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries WHERE transcript_key = ?", key); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM transcripts WHERE transcript_key = ?", key); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) TranscriptCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM transcripts").Scan(&n)
	return n, err
}

func (d *DB) EntryCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n)
	return n, err
}

type TranscriptRow struct {
	TranscriptKey string
	Format        string
	FilePath      string
	Speakers      []string
	EntryCount    int
	Summary       string
	ModifiedAt    string
}

const transcriptCols = "transcript_key, format, file_path, speakers, entry_count, summary, modified_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTranscript(r rowScanner) (TranscriptRow, error) {
	var t TranscriptRow
	var speakers string
	err := r.Scan(&t.TranscriptKey, &t.Format, &t.FilePath, &speakers, &t.EntryCount, &t.Summary, &t.ModifiedAt)
	if speakers != "" {
		t.Speakers = strings.Split(speakers, speakerSep)
	}
	return t, err
}

func (d *DB) GetTranscript(key string) (*TranscriptRow, error) {
	t, err := scanTranscript(d.db.QueryRow(
		"SELECT "+transcriptCols+" FROM transcripts WHERE transcript_key = ?", key,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTranscripts returns the most recently modified transcripts first.
func (d *DB) ListTranscripts(limit int) ([]TranscriptRow, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := d.db.Query(
		"SELECT "+transcriptCols+" FROM transcripts ORDER BY modified_at DESC, transcript_key LIMIT ?", limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TranscriptRow
	for rows.Next() {
		t, err := scanTranscript(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type EntryRow struct {
	TranscriptKey string
	EntryID       int
	Speaker       string
	Ts            string
	Text          string
	LineNumber    int
}

const entryCols = "transcript_key, entry_id, speaker, ts, text, line_number"

func scanEntries(rows *sql.Rows) ([]EntryRow, error) {
	var out []EntryRow
	for rows.Next() {
		var e EntryRow
		if err := rows.Scan(&e.TranscriptKey, &e.EntryID, &e.Speaker, &e.Ts, &e.Text, &e.LineNumber); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *DB) GetEntries(key string) ([]EntryRow, error) {
	rows, err := d.db.Query(
		"SELECT "+entryCols+" FROM entries WHERE transcript_key = ? ORDER BY entry_id", key,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// GetEntriesWindow returns a window of entries around a hit entry.
// startPos is the number of entries before the returned window.
// totalCount is the total number of entries in the transcript.
func (d *DB) GetEntriesWindow(key string, hitEntryID, context int) (entries []EntryRow, hitIdx int, startPos int, totalCount int, err error) {
	err = d.db.QueryRow(
		"SELECT COUNT(*) FROM entries WHERE transcript_key = ?", key,
	).Scan(&totalCount)
	if err != nil {
		return nil, -1, 0, 0, err
	}

	// entry ids are dense from 0, so the id is the position
	limit := totalCount
	if hitEntryID >= 0 && hitEntryID < totalCount && context >= 0 {
		startPos = max(hitEntryID-context, 0)
		endPos := min(hitEntryID+context+1, totalCount)
		limit = endPos - startPos
	}

	rows, err := d.db.Query(
		"SELECT "+entryCols+" FROM entries WHERE transcript_key = ? ORDER BY entry_id LIMIT ? OFFSET ?",
		key, limit, startPos,
	)
	if err != nil {
		return nil, -1, 0, 0, err
	}
	defer rows.Close()

	entries, err = scanEntries(rows)
	if err != nil {
		return nil, -1, 0, 0, err
	}
	hitIdx = -1
	for i, e := range entries {
		if e.EntryID == hitEntryID {
			hitIdx = i
			break
		}
	}
	return entries, hitIdx, startPos, totalCount, nil
}
