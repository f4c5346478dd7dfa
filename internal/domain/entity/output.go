package entity

import "time"

// Output types generated by the processing pipeline.
const (
	OutputTypeSummary    = "summary"
	OutputTypeFlashcards = "flashcards"
	OutputTypeMCQs       = "mcqs"
)

// Output is a generated artifact (summary, flashcards, quiz) for a document.
// Outputs are written by the out-of-scope processing pipeline; this service
// only reads them.
type Output struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	DocumentID uint   `gorm:"not null;index" json:"document_id"`
	Type       string `gorm:"size:20" json:"type"`
	Content    string `gorm:"type:text" json:"content"`

	CreatedAt time.Time `json:"created_at"`
}

func (Output) TableName() string {
	return "outputs"
}
