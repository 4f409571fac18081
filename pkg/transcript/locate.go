package transcript

import (
	"errors"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// blockSelector matches the exact class token "group/block", not a
	// class that merely contains it.
	blockSelector   = `p[class~="group/block"]`
	speakerSelector = `span[data-speaker="true"]`
	textSelector    = `span[data-clipped="false"]`
	timeAttr        = "data-time"
)

var errFailedToParseHTML = errors.New("failed to parse HTML for transcript blocks")

// Block is one speaker turn located in a parsed export.
type Block struct {
	sel *goquery.Selection
}

// Locate parses normalized markup and returns the transcript blocks in
// document order. found is false when no block matched, even after one
// extra unescape-and-reparse attempt.
func Locate(normalized string) (blocks []Block, found bool, err error) {
	blocks, err = findBlocks(normalized)
	if err != nil {
		return nil, false, err
	}
	if len(blocks) > 0 {
		return blocks, true, nil
	}

	// Triple-escaped input still shows entities after Normalize.
	retry := html.UnescapeString(normalized)
	if retry == normalized {
		return nil, false, nil
	}

	blocks, err = findBlocks(retry)
	if err != nil {
		return nil, false, err
	}
	return blocks, len(blocks) > 0, nil
}

func findBlocks(markup string) ([]Block, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, errors.Join(errFailedToParseHTML, err)
	}

	var blocks []Block
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		blocks = append(blocks, Block{sel: sel})
	})
	return blocks, nil
}
