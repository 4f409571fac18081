package transcript

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// UnknownSpeaker is used when a block carries no readable speaker name.
const UnknownSpeaker = "unknown"

// Line is one rendered speaker turn.
type Line struct {
	// Timestamp is the data-time offset in milliseconds.
	Timestamp *int64 `json:"timestamp_ms,omitempty" bson:"timestamp_ms,omitempty"`
	Speaker   string         `json:"speaker" bson:"speaker"`
	Text      string         `json:"text" bson:"text"`
}

// String renders the line as "{timestamp}{speaker}:\n{text}\n".
func (l Line) String() string {
	var b strings.Builder
	b.WriteString(FormatTimestamp(l.Timestamp))
	b.WriteString(l.Speaker)
	b.WriteString(":\n")
	b.WriteString(l.Text)
	b.WriteString("\n")
	return b.String()
}

// Render extracts speaker, timestamp and text from a block. The returned
// line has empty Text when the block holds no unclipped text; callers drop
// such lines.
func Render(block Block) Line {
	return Line{
		Timestamp: block.timestamp(),
		Speaker:   block.speaker(),
		Text:      block.text(),
	}
}

// speaker reads the first nested span of the first speaker marker.
func (b Block) speaker() string {
	if b.sel == nil {
		return UnknownSpeaker
	}

	marker := b.sel.Find(speakerSelector).First()
	if marker.Length() == 0 {
		return UnknownSpeaker
	}

	name := strings.TrimSpace(marker.Find("span").First().Text())
	if name == "" {
		return UnknownSpeaker
	}
	return name
}

func (b Block) timestamp() *int64 {
	if b.sel == nil {
		return nil
	}

	raw, exists := b.sel.Attr(timeAttr)
	if !exists {
		return nil
	}
	return parseMillis(raw)
}

func (b Block) text() string {
	if b.sel == nil {
		return ""
	}

	var parts []string
	b.sel.Find(textSelector).Each(func(_ int, s *goquery.Selection) {
		part := strings.TrimSpace(s.Text())
		if part != "" {
			parts = append(parts, part)
		}
	})

	return strings.TrimSpace(strings.Join(parts, " "))
}
