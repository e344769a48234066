// Package docx reads paragraph text from WordprocessingML packages and writes
// the small subset of the format needed for review documents.
package docx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	godocx "github.com/fumiama/go-docx"
)

const (
	wordNS       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	relNS        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	documentPart = "word/document.xml"
)

// ErrNotDocument indicates the package has no main document part.
var ErrNotDocument = errors.New("not a word document")

// ReadParagraphs returns the text of every top-level body paragraph of the
// document at path, in order. Paragraphs inside tables are not included.
func ReadParagraphs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	paras, err := Paragraphs(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return paras, nil
}

// Paragraphs is ReadParagraphs for an in-memory package.
func Paragraphs(r io.ReaderAt, size int64) ([]string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	// the parser accepts a package without a main part and yields an empty body
	if !hasPart(zr, documentPart) {
		return nil, ErrNotDocument
	}

	doc, err := godocx.Parse(r, size)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", documentPart, err)
	}

	var out []string
	for _, it := range doc.Document.Body.Items {
		if p, ok := it.(*godocx.Paragraph); ok {
			out = append(out, paragraphText(p))
		}
	}
	return out, nil
}

func hasPart(zr *zip.Reader, name string) bool {
	for _, f := range zr.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

// paragraphText joins run text the way a paragraph view of the body sees it:
// line breaks as newlines, tabs kept, page breaks dropped.
func paragraphText(p *godocx.Paragraph) string {
	var b strings.Builder
	for _, c := range p.Children {
		switch c := c.(type) {
		case *godocx.Run:
			writeRun(&b, c)
		case *godocx.Hyperlink:
			writeRun(&b, &c.Run)
		}
	}
	return b.String()
}

func writeRun(b *strings.Builder, r *godocx.Run) {
	for _, c := range r.Children {
		switch c := c.(type) {
		case *godocx.Text:
			b.WriteString(c.Text)
		case *godocx.Tab:
			b.WriteByte('\t')
		case *godocx.BarterRabbet:
			if c.Type != "page" {
				b.WriteByte('\n')
			}
		}
	}
}
