package repository

import "github.com/yourusername/quizzy-api/internal/domain/entity"

// StudySessionRepository defines data access for study sessions.
type StudySessionRepository interface {
	Create(session *entity.StudySession) error
	GetByID(id uint) (*entity.StudySession, error)
	ListByUser(userID uint, limit, offset int) ([]entity.StudySession, error)
	AttachDocument(sessionID, documentID uint) error
	ListDocuments(sessionID uint) ([]entity.Document, error)
}
