package content

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

// wordDocument is the subset of word/document.xml we read.
type wordDocument struct {
	Body struct {
		Paragraphs []wordParagraph `xml:"p"`
	} `xml:"body"`
}

type wordParagraph struct {
	Runs []wordRun `xml:"r"`
}

type wordRun struct {
	Text []wordText `xml:"t"`
}

type wordText struct {
	Content string `xml:",chardata"`
}

// extractDOCXText joins the paragraph text of a DOCX package with newlines.
func extractDOCXText(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a DOCX container: %v", ErrUnsupportedFormat, err)
	}

	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", documentPart, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read %s: %w", documentPart, err)
		}

		return parseWordDocument(raw)
	}

	return "", fmt.Errorf("%w: %s missing", ErrUnsupportedFormat, documentPart)
}

func parseWordDocument(raw []byte) (string, error) {
	var doc wordDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("parse %s: %w", documentPart, err)
	}

	paragraphs := make([]string, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, run := range para.Runs {
			for _, text := range run.Text {
				b.WriteString(text.Content)
			}
		}
		paragraphs = append(paragraphs, b.String())
	}

	return strings.Join(paragraphs, "\n"), nil
}
