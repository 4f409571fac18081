// Package transcript recovers speaker turns from tl;dv meeting exports.
//
// An export is a page of <p class="group/block"> elements, one per turn:
//
//	<p class="group/block" data-time="61000">
//	  <span data-speaker="true"><span>Anna</span></span>
//	  <span data-clipped="false">Hello everyone.</span>
//	</p>
//
// Extract turns such markup, escaped or not, into plain text:
//
//	[01:01] Anna:
//	Hello everyone.
package transcript

import "strings"

const (
	// NoBlocksMessage is returned when the markup holds no transcript blocks.
	NoBlocksMessage = "No transcript blocks found (structure may have changed, or the HTML markup is escaped)."

	// NotFoundMessage is returned when blocks exist but none carries text.
	NotFoundMessage = "Transcript not found."
)

// Result holds the typed lines of an extraction and their rendering.
type Result struct {
	Lines []Line
	// Found reports whether any transcript block was located.
	Found bool
	// Text is the rendered transcript or one of the diagnostic messages.
	Text string
}

// Extract returns the rendered transcript for raw export markup.
// Missing or empty transcripts are reported through the diagnostic
// messages, not through err.
func Extract(raw string) (string, error) {
	res, err := ExtractLines(raw)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// ExtractLines runs the full pipeline and keeps the typed lines.
func ExtractLines(raw string) (Result, error) {
	blocks, found, err := Locate(Normalize(raw))
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{Text: NoBlocksMessage}, nil
	}

	lines := make([]Line, 0, len(blocks))
	for _, block := range blocks {
		line := Render(block)
		if line.Text == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return Result{Found: true, Text: NotFoundMessage}, nil
	}

	return Result{Lines: lines, Found: true, Text: Join(lines)}, nil
}

// Join renders lines separated by a blank line.
func Join(lines []Line) string {
	rendered := make([]string, len(lines))
	for i, line := range lines {
		rendered[i] = line.String()
	}
	return strings.Join(rendered, "\n")
}
