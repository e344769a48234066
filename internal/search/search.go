package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/coachdoc/internal/index"
)

type Result struct {
	TranscriptKey string
	EntryID       int
	ModifiedAt    string
	Format        string
	Speaker       string
	Timestamp     string
	Summary       string
	Snippet       string
	Rank          float64
}

type Options struct {
	Query   string
	Speaker string // "" = all speakers
	Format  string // "" = all, "docx", "vtt"
	Since   string // "" = no filter, e.g. "2024-01-01"
	Limit   int
}

// containsCJK returns true if the string contains any CJK ideograph or kana.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	runes := []rune(text)
	lower := []rune(strings.ToLower(text))
	qRunes := []rune(strings.ToLower(query))
	runePos := -1
	if len(lower) == len(runes) {
		runePos = indexRunes(lower, qRunes)
	}
	if runePos < 0 {
		if len(runes) > contextChars*2 {
			return string(runes[:contextChars*2]) + "..."
		}
		return text
	}
	start := max(runePos-contextChars, 0)
	end := min(runePos+len(qRunes)+contextChars, len(runes))
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

func indexRunes(s, sub []rune) int {
	if len(sub) == 0 {
		return -1
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if string(s[i:i+len(sub)]) == string(sub) {
			return i
		}
	}
	return -1
}

func Search(db *index.DB, opts Options) ([]Result, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, fmt.Errorf("empty query")
	}
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	// Fetch more results before dedup so we still have enough after
	origLimit := opts.Limit
	opts.Limit = origLimit * 3

	var results []Result
	var err error
	if containsCJK(opts.Query) {
		results, err = searchLike(db, opts)
	} else {
		results, err = searchFTS(db, opts)
	}
	if err != nil {
		return nil, err
	}

	// Deduplicate: keep only the best-ranked result per transcript
	seen := make(map[string]bool)
	var deduped []Result
	for _, r := range results {
		if seen[r.TranscriptKey] {
			continue
		}
		seen[r.TranscriptKey] = true
		deduped = append(deduped, r)
		if len(deduped) >= origLimit {
			break
		}
	}
	return deduped, nil
}

func filters(opts Options) ([]string, []any) {
	var conditions []string
	var args []any
	if opts.Speaker != "" {
		conditions = append(conditions, "e.speaker = ?")
		args = append(args, opts.Speaker)
	}
	if opts.Format != "" {
		conditions = append(conditions, "t.format = ?")
		args = append(args, opts.Format)
	}
	if opts.Since != "" {
		conditions = append(conditions, "t.modified_at >= ?")
		args = append(args, opts.Since)
	}
	return conditions, args
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"entries_fts MATCH ?"}
	args := []any{opts.Query}
	fc, fa := filters(opts)
	conditions = append(conditions, fc...)
	args = append(args, fa...)

	query := fmt.Sprintf(`
		SELECT
			e.transcript_key,
			e.entry_id,
			t.modified_at,
			t.format,
			e.speaker,
			e.ts,
			t.summary,
			snippet(entries_fts, 0, '>>>','<<<', '...', 40) as snip,
			bm25(entries_fts, 1.0) as rank
		FROM entries_fts
		JOIN entries e ON entries_fts.rowid = e.rowid
		JOIN transcripts t ON e.transcript_key = t.transcript_key
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"e.text LIKE ?"}
	args := []any{"%" + opts.Query + "%"}
	fc, fa := filters(opts)
	conditions = append(conditions, fc...)
	args = append(args, fa...)

	query := fmt.Sprintf(`
		SELECT
			e.transcript_key,
			e.entry_id,
			t.modified_at,
			t.format,
			e.speaker,
			e.ts,
			t.summary,
			e.text
		FROM entries e
		JOIN transcripts t ON e.transcript_key = t.transcript_key
		WHERE %s
		ORDER BY t.modified_at DESC, e.entry_id
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var fullText string
		if err := rows.Scan(
			&r.TranscriptKey, &r.EntryID, &r.ModifiedAt,
			&r.Format, &r.Speaker, &r.Timestamp, &r.Summary,
			&fullText,
		); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(fullText, opts.Query, 30)
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.TranscriptKey, &r.EntryID, &r.ModifiedAt,
			&r.Format, &r.Speaker, &r.Timestamp, &r.Summary,
			&r.Snippet, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
