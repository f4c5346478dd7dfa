package service

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yourusername/quizzy-api/internal/domain/entity"
	"github.com/yourusername/quizzy-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizzy-api/internal/pkg/errors"
)

// StudyService manages documents, their generated outputs and study
// sessions. All reads and writes are scoped to the owning user.
type StudyService struct {
	documentRepo repository.DocumentRepository
	outputRepo   repository.OutputRepository
	sessionRepo  repository.StudySessionRepository
}

// NewStudyService creates the study service and fails on missing dependencies.
func NewStudyService(
	documentRepo repository.DocumentRepository,
	outputRepo repository.OutputRepository,
	sessionRepo repository.StudySessionRepository,
) (*StudyService, error) {
	if documentRepo == nil {
		return nil, fmt.Errorf("DocumentRepository is required for StudyService")
	}
	if outputRepo == nil {
		return nil, fmt.Errorf("OutputRepository is required for StudyService")
	}
	if sessionRepo == nil {
		return nil, fmt.Errorf("StudySessionRepository is required for StudyService")
	}
	return &StudyService{
		documentRepo: documentRepo,
		outputRepo:   outputRepo,
		sessionRepo:  sessionRepo,
	}, nil
}

// RegisterDocument records an uploaded document for the user. The storage
// key is derived server-side so user-supplied filenames never reach storage
// paths.
func (s *StudyService) RegisterDocument(userID uint, filename string) (*entity.Document, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", apperrors.ErrValidation)
	}

	storageKey := fmt.Sprintf("documents/%d/%s%s", userID, uuid.NewString(), filepath.Ext(filename))

	doc := &entity.Document{
		UserID:   userID,
		Filename: filename,
		FileURL:  storageKey,
		Status:   entity.DocumentStatusUploaded,
	}
	if err := s.documentRepo.Create(doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	log.Printf("[StudyService] Registered document ID=%d for user ID=%d", doc.ID, userID)
	return doc, nil
}

// GetDocument returns a document owned by the user.
func (s *StudyService) GetDocument(userID, documentID uint) (*entity.Document, error) {
	doc, err := s.documentRepo.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID {
		return nil, fmt.Errorf("%w: document belongs to another user", apperrors.ErrForbidden)
	}
	return doc, nil
}

// ListDocuments returns a page of the user's documents.
func (s *StudyService) ListDocuments(userID uint, page, pageSize int) ([]entity.Document, error) {
	limit, offset := normalizePagination(page, pageSize)
	return s.documentRepo.ListByUser(userID, limit, offset)
}

// UpdateDocumentStatus moves a document through the processing pipeline.
func (s *StudyService) UpdateDocumentStatus(userID, documentID uint, status string) error {
	if !entity.IsValidDocumentStatus(status) {
		return fmt.Errorf("%w: invalid document status %q", apperrors.ErrValidation, status)
	}
	if _, err := s.GetDocument(userID, documentID); err != nil {
		return err
	}
	return s.documentRepo.UpdateStatus(documentID, status)
}

// ListOutputs returns generated outputs for a document owned by the user.
func (s *StudyService) ListOutputs(userID, documentID uint) ([]entity.Output, error) {
	if _, err := s.GetDocument(userID, documentID); err != nil {
		return nil, err
	}
	return s.outputRepo.ListByDocument(documentID)
}

// CreateSession creates a named study session for the user.
func (s *StudyService) CreateSession(userID uint, name string) (*entity.StudySession, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: session name is required", apperrors.ErrValidation)
	}

	session := &entity.StudySession{
		UserID: userID,
		Name:   name,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create study session: %w", err)
	}

	log.Printf("[StudyService] Created study session ID=%d for user ID=%d", session.ID, userID)
	return session, nil
}

// GetSession returns a study session owned by the user.
func (s *StudyService) GetSession(userID, sessionID uint) (*entity.StudySession, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("%w: session belongs to another user", apperrors.ErrForbidden)
	}
	return session, nil
}

// ListSessions returns a page of the user's study sessions.
func (s *StudyService) ListSessions(userID uint, page, pageSize int) ([]entity.StudySession, error) {
	limit, offset := normalizePagination(page, pageSize)
	return s.sessionRepo.ListByUser(userID, limit, offset)
}

// AttachDocument links a document into a study session. Both must belong to
// the user; attaching the same pair twice is a conflict.
func (s *StudyService) AttachDocument(userID, sessionID, documentID uint) error {
	if _, err := s.GetSession(userID, sessionID); err != nil {
		return err
	}
	if _, err := s.GetDocument(userID, documentID); err != nil {
		return err
	}

	if err := s.sessionRepo.AttachDocument(sessionID, documentID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: document is already attached to this session", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to attach document to session: %w", err)
	}
	return nil
}

// normalizePagination clamps page parameters and converts them to a
// limit/offset pair for the repositories.
func normalizePagination(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	} else if pageSize > 100 {
		pageSize = 100
	}
	return pageSize, (page - 1) * pageSize
}

// ListSessionDocuments returns the documents attached to a session.
func (s *StudyService) ListSessionDocuments(userID, sessionID uint) ([]entity.Document, error) {
	if _, err := s.GetSession(userID, sessionID); err != nil {
		return nil, err
	}
	return s.sessionRepo.ListDocuments(sessionID)
}
