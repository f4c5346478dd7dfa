package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/quizzy-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizzy-api/internal/pkg/errors"
)

// StudySessionRepo implements repository.StudySessionRepository.
type StudySessionRepo struct {
	db *gorm.DB
}

func NewStudySessionRepo(db *gorm.DB) *StudySessionRepo {
	return &StudySessionRepo{db: db}
}

func (r *StudySessionRepo) Create(session *entity.StudySession) error {
	return r.db.Create(session).Error
}

func (r *StudySessionRepo) GetByID(id uint) (*entity.StudySession, error) {
	var session entity.StudySession
	err := r.db.First(&session, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *StudySessionRepo) ListByUser(userID uint, limit, offset int) ([]entity.StudySession, error) {
	var sessions []entity.StudySession
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error
	return sessions, err
}

// AttachDocument links a document into a session. Attaching the same
// document twice is a Conflict via the composite primary key.
func (r *StudySessionRepo) AttachDocument(sessionID, documentID uint) error {
	link := entity.StudySessionDocument{SessionID: sessionID, DocumentID: documentID}
	err := r.db.Create(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: document already attached to session", apperrors.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *StudySessionRepo) ListDocuments(sessionID uint) ([]entity.Document, error) {
	var docs []entity.Document
	err := r.db.
		Joins("JOIN sessions_documents sd ON sd.document_id = documents.id").
		Where("sd.session_id = ?", sessionID).
		Order("documents.created_at ASC").
		Find(&docs).Error
	return docs, err
}
