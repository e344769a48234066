package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// packageWith builds a zip holding a single document part.
func packageWith(t *testing.T, name, body string) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create(name)
	require.NoError(t, err)
	_, err = io.WriteString(fw, body)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return bytes.NewReader(buf.Bytes())
}

const teamsBody = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<w:body>
<w:p><w:r><w:t>March 4, 2025, 3:15PM</w:t></w:r></w:p>
<w:p><w:r><w:t>Jane Doe   </w:t></w:r><w:r><w:t>1:02</w:t></w:r><w:r><w:br/><w:t>Hello there.</w:t></w:r></w:p>
<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:tab/><w:t xml:space="preserve">indented &amp; escaped</w:t></w:r></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>in a table</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
<w:p/>
<w:p><w:r><w:t>before</w:t><w:br w:type="page"/><w:t>after</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">see </w:t></w:r><w:hyperlink r:id="rId7"><w:r><w:t>notes</w:t></w:r></w:hyperlink></w:p>
<w:sectPr/>
</w:body>
</w:document>`

func TestParagraphs(t *testing.T) {
	r := packageWith(t, documentPart, teamsBody)

	got, err := Paragraphs(r, r.Size())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"March 4, 2025, 3:15PM",
		"Jane Doe   1:02\nHello there.",
		"\tindented & escaped",
		"",
		"beforeafter",
		"see notes",
	}, got)
}

func TestParagraphs_NotADocument(t *testing.T) {
	r := packageWith(t, "xl/workbook.xml", "<workbook/>")
	_, err := Paragraphs(r, r.Size())
	assert.ErrorIs(t, err, ErrNotDocument)
}

func TestParagraphs_NotAZip(t *testing.T) {
	r := strings.NewReader("WEBVTT\n")
	_, err := Paragraphs(r, r.Size())
	assert.Error(t, err)
}

func TestWrite_RoundTrip(t *testing.T) {
	doc := New()
	doc.Header = []Paragraph{{Runs: []Run{{Text: "Coach Name"}}}}
	doc.Footer = []Paragraph{{Runs: []Run{{Text: "Page "}, {Field: FieldPage}}}}
	doc.AddHeading("Title <1>", 1)
	doc.AddParagraph(Run{Text: "line one\nline two", Bold: true, Color: RGB(1, 2, 3), SizePt: 14})
	table := &Table{ColumnWidths: []float64{3, 3}}
	table.AddRow(Paragraph{Runs: []Run{{Text: "cell"}}}, Paragraph{}).RepeatHeader = true
	doc.AddTable(table)
	doc.AddParagraph(Run{Text: "last"})

	path := filepath.Join(t.TempDir(), "out", "review.docx")
	require.NoError(t, doc.Save(path))

	got, err := ReadParagraphs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Title <1>", "line one\nline two", "last"}, got)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	parts := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		parts[f.Name] = string(b)
	}

	require.Contains(t, parts, "[Content_Types].xml")
	assert.Contains(t, parts["word/header1.xml"], "Coach Name")
	assert.Contains(t, parts["word/footer1.xml"], `<w:instrText xml:space="preserve"> PAGE </w:instrText>`)
	assert.Contains(t, parts[documentPart], `<w:tblHeader/>`)
	assert.Contains(t, parts[documentPart], `<w:color w:val="010203"/><w:sz w:val="28"/>`)
	assert.Contains(t, parts[documentPart], `Title &lt;1&gt;`)
	assert.Contains(t, parts[documentPart], `<w:pgMar w:top="1440"`)
}

func TestRGB(t *testing.T) {
	assert.Equal(t, "404040", RGB(64, 64, 64))
	assert.Equal(t, "696969", RGB(105, 105, 105))
}
