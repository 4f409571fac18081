package content

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

const utf8Name = "UTF-8"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectEncoding returns a best-guess charset name for data.
// Valid UTF-8 is reported without consulting the detector.
func DetectEncoding(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return utf8Name
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil || result.Charset == "" {
		return utf8Name
	}
	return result.Charset
}

// Decode converts data from the named charset to a UTF-8 string.
// Unknown names fall back to UTF-8 with invalid bytes replaced.
func Decode(data []byte, name string) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	enc, _ := charset.Lookup(normalizeCharsetName(name))
	if enc == nil {
		return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), nil
}

// DecodeText detects the encoding of data and decodes it.
func DecodeText(data []byte) (string, error) {
	return Decode(data, DetectEncoding(data))
}

// normalizeCharsetName maps detector names that are not WHATWG labels.
func normalizeCharsetName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "gb-18030" {
		return "gb18030"
	}
	return name
}
