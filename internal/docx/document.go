package docx

import (
	"fmt"
	"strings"
)

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Field codes usable in a Run.
const (
	FieldPage     = "PAGE"
	FieldNumPages = "NUMPAGES"
)

// Run is a span of text sharing one format. When Field is set the run
// renders as a field (page number, page count) and Text is ignored.
type Run struct {
	Text   string
	Bold   bool
	Color  string // RRGGBB
	SizePt float64
	Field  string
}

// RGB formats a colour for Run.Color.
func RGB(r, g, b uint8) string {
	return fmt.Sprintf("%02X%02X%02X", r, g, b)
}

type Paragraph struct {
	Style string // style id, e.g. "Heading1"
	Align Align
	Runs  []Run
}

// Text concatenates the text of the paragraph's runs.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// AddRun appends a run and returns the paragraph for chaining.
func (p *Paragraph) AddRun(r Run) *Paragraph {
	p.Runs = append(p.Runs, r)
	return p
}

type Cell struct {
	Paragraph Paragraph
}

type Row struct {
	Cells []Cell
	// RepeatHeader repeats the row at the top of every page.
	RepeatHeader bool
}

type Table struct {
	ColumnWidths []float64 // inches
	Rows         []Row
}

// AddRow appends a row with one cell per paragraph.
func (t *Table) AddRow(cells ...Paragraph) *Row {
	row := Row{Cells: make([]Cell, len(cells))}
	for i, p := range cells {
		row.Cells[i] = Cell{Paragraph: p}
	}
	t.Rows = append(t.Rows, row)
	return &t.Rows[len(t.Rows)-1]
}

// Block is a paragraph or a table in the document body.
type Block interface {
	writeXML(b *strings.Builder)
}

type Margins struct {
	Top, Bottom, Left, Right float64 // inches
}

// Document is an in-memory review document with one section.
type Document struct {
	Margins Margins
	Header  []Paragraph
	Footer  []Paragraph
	Body    []Block
}

func New() *Document {
	return &Document{
		Margins: Margins{Top: 1, Bottom: 1, Left: 1, Right: 1},
	}
}

// AddParagraph appends a body paragraph built from runs.
func (d *Document) AddParagraph(runs ...Run) *Paragraph {
	p := &Paragraph{Runs: runs}
	d.Body = append(d.Body, p)
	return p
}

func (d *Document) AddHeading(text string, level int) *Paragraph {
	p := &Paragraph{Style: fmt.Sprintf("Heading%d", level), Runs: []Run{{Text: text}}}
	d.Body = append(d.Body, p)
	return p
}

func (d *Document) AddTable(t *Table) {
	d.Body = append(d.Body, t)
}

// Tables returns the body tables in order.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, b := range d.Body {
		if t, ok := b.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}

// Paragraphs returns the body paragraphs in order, skipping tables.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, b := range d.Body {
		if p, ok := b.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}
