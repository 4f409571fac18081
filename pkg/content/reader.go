// Package content turns uploaded or local files into the text handed to the
// transcript extractor.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for files that cannot be read as text.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	errEmptyPath         = errors.New("file path is empty")
)

// ReadFile reads a local file and returns its text. See ReadUpload.
func ReadFile(path string) (string, error) {
	if path == "" {
		return "", errEmptyPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return ReadUpload(filepath.Base(path), data)
}

// ReadUpload converts file bytes into text based on the file name:
//   - .txt, .html, .htm and unknown extensions are decoded as text
//   - .docx (and .doc saved as DOCX) yield their paragraph text
//   - .md is decoded and rendered to HTML
func ReadUpload(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".docx", ".doc":
		return extractDOCXText(data)

	case ".md", ".markdown":
		text, err := DecodeText(data)
		if err != nil {
			return "", err
		}
		return markdownToHTML(text)

	default:
		return DecodeText(data)
	}
}
