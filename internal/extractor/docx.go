package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

type WordDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    Body     `xml:"body"`
}

type Body struct {
	Paragraphs []Paragraph `xml:"p"`
}

// Paragraph holds the visible text of a w:p element. Text from w:t runs,
// w:tab and w:br is kept in document order, including runs nested inside
// hyperlinks or revision marks.
type Paragraph struct {
	Text string
}

func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	depth := 1

	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				var s string
				if err := d.DecodeElement(&s, &t); err != nil {
					return err
				}
				b.WriteString(s)
				continue
			case "pPr", "rPr", "delText", "instrText":
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}

	p.Text = b.String()
	return nil
}

// ExtractDOCX joins every body paragraph with a newline. Empty paragraphs
// contribute empty lines.
func ExtractDOCX(data []byte) (string, error) {
	reader := bytes.NewReader(data)

	zipReader, err := zip.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX as ZIP: %w", err)
	}

	// Find document.xml
	var documentFile *zip.File
	for _, file := range zipReader.File {
		if file.Name == "word/document.xml" {
			documentFile = file
			break
		}
	}

	if documentFile == nil {
		return "", fmt.Errorf("document.xml not found in DOCX")
	}

	xmlFile, err := documentFile.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open document.xml: %w", err)
	}
	defer xmlFile.Close()

	xmlData, err := io.ReadAll(xmlFile)
	if err != nil {
		return "", fmt.Errorf("failed to read document.xml: %w", err)
	}

	var doc WordDocument
	if err := xml.Unmarshal(xmlData, &doc); err != nil {
		return "", fmt.Errorf("failed to parse document.xml: %w", err)
	}

	lines := make([]string, len(doc.Body.Paragraphs))
	for i, para := range doc.Body.Paragraphs {
		lines[i] = para.Text
	}

	return strings.Join(lines, "\n"), nil
}
