// Package review lays out parsed transcript entries as a coaching review
// document: a numbered two-column table with the transcript on the left and
// an empty feedback column on the right.
package review

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/coachdoc/internal/config"
	"github.com/Zuo-Peng/coachdoc/internal/docx"
	"github.com/Zuo-Peng/coachdoc/internal/transcript"
)

var (
	headerColor    = docx.RGB(64, 64, 64)
	timestampColor = docx.RGB(105, 105, 105)
)

type Options struct {
	Coach  string
	Layout config.Document
}

// Build lays out entries as a review document. Entries whose speaker equals
// opts.Coach are labelled "Coach", every other entry "Client".
func Build(entries []transcript.Entry, opts Options) *docx.Document {
	layout := opts.Layout
	doc := docx.New()
	doc.Margins = docx.Margins{Top: 0.75, Bottom: 0.5, Left: 0.5, Right: 0.5}

	if opts.Coach != "" {
		doc.Header = []docx.Paragraph{{
			Align: docx.AlignLeft,
			Runs:  []docx.Run{{Text: opts.Coach, Color: headerColor, SizePt: 14}},
		}}
	}
	doc.Footer = []docx.Paragraph{{
		Align: docx.AlignCenter,
		Runs: []docx.Run{
			{Text: "Page "},
			{Field: docx.FieldPage},
			{Text: " of "},
			{Field: docx.FieldNumPages},
		},
	}}

	doc.AddHeading(layout.Title, 1).Align = docx.AlignCenter

	for _, item := range layout.Legend {
		doc.AddParagraph(
			docx.Run{Text: item.Label + ": ", Bold: true},
			docx.Run{Text: item.Description},
		)
	}
	doc.AddParagraph()
	doc.AddParagraph()

	table := &docx.Table{ColumnWidths: []float64{5.0, 2.5}}
	table.AddRow(
		docx.Paragraph{Runs: []docx.Run{{Text: layout.TranscriptHeader, Bold: true}}},
		docx.Paragraph{Runs: []docx.Run{{Text: layout.FeedbackHeader, Bold: true}}},
	).RepeatHeader = true

	for i, e := range entries {
		table.AddRow(entryCell(i+1, e, opts.Coach), docx.Paragraph{})
	}
	doc.AddTable(table)

	for _, prompt := range layout.ClosingPrompts {
		doc.AddParagraph()
		doc.AddParagraph(docx.Run{Text: prompt})
	}

	return doc
}

// entryCell renders "n [timestamp] Role Speaker text".
func entryCell(n int, e transcript.Entry, coach string) docx.Paragraph {
	role := transcript.Role(e.Speaker, coach)
	return docx.Paragraph{Runs: []docx.Run{
		{Text: fmt.Sprintf("%d [", n)},
		{Text: e.Timestamp, Color: timestampColor},
		{Text: "] "},
		{Text: role + " " + e.Speaker, Bold: true},
		{Text: " " + e.Text},
	}}
}

// OutputPath places the review next to the input: "session.vtt" becomes
// "session<suffix>".
func OutputPath(inputPath, suffix string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(inputPath), base+suffix)
}
