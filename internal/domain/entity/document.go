package entity

import "time"

// Document statuses. The processing pipeline advances a document from
// "uploaded" once it picks the file up; this service only registers uploads.
const (
	DocumentStatusUploaded   = "uploaded"
	DocumentStatusProcessing = "processing"
	DocumentStatusReady      = "ready"
	DocumentStatusFailed     = "failed"
)

// IsValidDocumentStatus reports whether status is a known pipeline state.
func IsValidDocumentStatus(status string) bool {
	switch status {
	case DocumentStatusUploaded, DocumentStatusProcessing, DocumentStatusReady, DocumentStatusFailed:
		return true
	default:
		return false
	}
}

// Document is a file a user uploaded for processing.
type Document struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Filename string `gorm:"size:255;not null" json:"filename"`
	FileURL  string `gorm:"size:512;not null" json:"file_url"`
	Status   string `gorm:"size:20;not null;default:'uploaded'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

func (Document) TableName() string {
	return "documents"
}
