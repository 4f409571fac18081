package domain

import (
	"time"

	"github.com/google/uuid"

	"meet-transcript/pkg/transcript"
)

// Transcript is one extraction run over an uploaded or local export.
//
// It is separate from the transcript package's Result so storage concerns
// (IDs, creation time) stay out of the extraction core.
type Transcript struct {
	// ID is a random UUID assigned when the record is created.
	ID string `bson:"_id" json:"id"`

	// Source is the file name the export was read from.
	Source string `bson:"source" json:"source"`

	// Title is the document title, when the export has one.
	Title string `bson:"title,omitempty" json:"title,omitempty"`

	// Lines are the speaker turns that carried text.
	Lines []transcript.Line `bson:"lines" json:"lines"`

	// Text is the rendered transcript or a diagnostic message.
	Text string `bson:"text" json:"text"`

	// Found reports whether any transcript block was located.
	Found bool `bson:"found" json:"found"`

	// CreatedAt is when the extraction ran.
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// NewTranscript builds a record from an extraction result.
func NewTranscript(source, title string, res transcript.Result) *Transcript {
	return &Transcript{
		ID:        uuid.New().String(),
		Source:    source,
		Title:     title,
		Lines:     res.Lines,
		Text:      res.Text,
		Found:     res.Found,
		CreatedAt: time.Now().UTC(),
	}
}
