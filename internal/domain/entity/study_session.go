package entity

import "time"

// StudySession groups documents a user studies together. Distinct from the
// auth session token, which is stateless and never persisted.
type StudySession struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"size:100" json:"name"`

	CreatedAt time.Time `json:"created_at"`
}

func (StudySession) TableName() string {
	return "sessions"
}

// StudySessionDocument links a document into a study session.
type StudySessionDocument struct {
	SessionID  uint `gorm:"primaryKey" json:"session_id"`
	DocumentID uint `gorm:"primaryKey" json:"document_id"`
}

func (StudySessionDocument) TableName() string {
	return "sessions_documents"
}
