package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const contentTypes = xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>` +
	`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>` +
	`</Types>`

const packageRels = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRels = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>` +
	`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>` +
	`</Relationships>`

const styles = xmlHeader + `<w:styles xmlns:w="` + wordNS + `">` +
	`<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault>` +
	`<w:pPrDefault><w:pPr><w:spacing w:after="120"/></w:pPr></w:pPrDefault></w:docDefaults>` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/>` +
	`<w:pPr><w:keepNext/><w:spacing w:before="480" w:after="240"/><w:outlineLvl w:val="0"/></w:pPr>` +
	`<w:rPr><w:b/><w:color w:val="2F5496"/><w:sz w:val="32"/></w:rPr></w:style>` +
	`<w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/>` +
	`<w:tblPr><w:tblBorders><w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
	`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
	`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/></w:tblBorders></w:tblPr></w:style>` +
	`</w:styles>`

// page size: US letter
const (
	pageWidthTwips  = 12240
	pageHeightTwips = 15840
)

func twips(inches float64) int {
	return int(inches*1440 + 0.5)
}

// Save writes the document to path, creating parent directories.
func (d *Document) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write emits the document as a .docx package.
func (d *Document) Write(w io.Writer) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypes},
		{"_rels/.rels", packageRels},
		{"word/_rels/document.xml.rels", documentRels},
		{"word/styles.xml", styles},
		{documentPart, d.documentXML()},
		{"word/header1.xml", headerFooterXML("hdr", d.Header)},
		{"word/footer1.xml", headerFooterXML("ftr", d.Footer)},
	}

	for _, p := range parts {
		fw, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := io.WriteString(fw, p.body); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

func (d *Document) documentXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:document xmlns:w="` + wordNS + `" xmlns:r="` + relNS + `"><w:body>`)
	for _, block := range d.Body {
		block.writeXML(&b)
	}
	fmt.Fprintf(&b, `<w:sectPr><w:headerReference w:type="default" r:id="rId2"/><w:footerReference w:type="default" r:id="rId3"/>`+
		`<w:pgSz w:w="%d" w:h="%d"/><w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`,
		pageWidthTwips, pageHeightTwips,
		twips(d.Margins.Top), twips(d.Margins.Right), twips(d.Margins.Bottom), twips(d.Margins.Left))
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func headerFooterXML(root string, paras []Paragraph) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:` + root + ` xmlns:w="` + wordNS + `" xmlns:r="` + relNS + `">`)
	if len(paras) == 0 {
		b.WriteString(`<w:p/>`)
	}
	for i := range paras {
		paras[i].writeXML(&b)
	}
	b.WriteString(`</w:` + root + `>`)
	return b.String()
}

func (p *Paragraph) writeXML(b *strings.Builder) {
	b.WriteString(`<w:p>`)
	if p.Style != "" || p.Align != "" {
		b.WriteString(`<w:pPr>`)
		if p.Style != "" {
			b.WriteString(`<w:pStyle w:val="` + escape(p.Style) + `"/>`)
		}
		if p.Align != "" {
			b.WriteString(`<w:jc w:val="` + string(p.Align) + `"/>`)
		}
		b.WriteString(`</w:pPr>`)
	}
	for _, r := range p.Runs {
		r.writeXML(b)
	}
	b.WriteString(`</w:p>`)
}

func (r Run) props() string {
	var b strings.Builder
	if r.Bold {
		b.WriteString(`<w:b/>`)
	}
	if r.Color != "" {
		b.WriteString(`<w:color w:val="` + escape(r.Color) + `"/>`)
	}
	if r.SizePt > 0 {
		fmt.Fprintf(&b, `<w:sz w:val="%d"/>`, int(r.SizePt*2+0.5))
	}
	if b.Len() == 0 {
		return ""
	}
	return `<w:rPr>` + b.String() + `</w:rPr>`
}

func (r Run) writeXML(b *strings.Builder) {
	props := r.props()

	if r.Field != "" {
		// begin, instruction, separator, cached value, end
		b.WriteString(`<w:r>` + props + `<w:fldChar w:fldCharType="begin"/></w:r>`)
		b.WriteString(`<w:r>` + props + `<w:instrText xml:space="preserve"> ` + escape(r.Field) + ` </w:instrText></w:r>`)
		b.WriteString(`<w:r>` + props + `<w:fldChar w:fldCharType="separate"/></w:r>`)
		b.WriteString(`<w:r>` + props + `<w:t>1</w:t></w:r>`)
		b.WriteString(`<w:r>` + props + `<w:fldChar w:fldCharType="end"/></w:r>`)
		return
	}

	b.WriteString(`<w:r>` + props)
	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			b.WriteString(`<w:br/>`)
		}
		if line == "" {
			continue
		}
		b.WriteString(`<w:t xml:space="preserve">` + escape(line) + `</w:t>`)
	}
	b.WriteString(`</w:r>`)
}

func (t *Table) writeXML(b *strings.Builder) {
	b.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="0" w:type="auto"/><w:tblLook w:val="04A0"/></w:tblPr>`)
	b.WriteString(`<w:tblGrid>`)
	for _, w := range t.ColumnWidths {
		fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, twips(w))
	}
	b.WriteString(`</w:tblGrid>`)

	for _, row := range t.Rows {
		b.WriteString(`<w:tr>`)
		if row.RepeatHeader {
			b.WriteString(`<w:trPr><w:tblHeader/></w:trPr>`)
		}
		for i, cell := range row.Cells {
			b.WriteString(`<w:tc>`)
			if i < len(t.ColumnWidths) {
				fmt.Fprintf(b, `<w:tcPr><w:tcW w:w="%d" w:type="dxa"/></w:tcPr>`, twips(t.ColumnWidths[i]))
			}
			cell.Paragraph.writeXML(b)
			b.WriteString(`</w:tc>`)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
