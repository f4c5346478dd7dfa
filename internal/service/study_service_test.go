package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizzy-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizzy-api/internal/pkg/errors"
)

// MockDocumentRepository implements repository.DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(doc *entity.Document) error {
	args := m.Called(doc)
	if args.Error(0) == nil && doc.ID == 0 {
		doc.ID = 1
	}
	return args.Error(0)
}

func (m *MockDocumentRepository) GetByID(id uint) (*entity.Document, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListByUser(userID uint, limit, offset int) ([]entity.Document, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Document), args.Error(1)
}

func (m *MockDocumentRepository) UpdateStatus(id uint, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

// MockOutputRepository implements repository.OutputRepository
type MockOutputRepository struct {
	mock.Mock
}

func (m *MockOutputRepository) GetByID(id uint) (*entity.Output, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Output), args.Error(1)
}

func (m *MockOutputRepository) ListByDocument(documentID uint) ([]entity.Output, error) {
	args := m.Called(documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Output), args.Error(1)
}

// MockStudySessionRepository implements repository.StudySessionRepository
type MockStudySessionRepository struct {
	mock.Mock
}

func (m *MockStudySessionRepository) Create(session *entity.StudySession) error {
	args := m.Called(session)
	if args.Error(0) == nil && session.ID == 0 {
		session.ID = 1
	}
	return args.Error(0)
}

func (m *MockStudySessionRepository) GetByID(id uint) (*entity.StudySession, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.StudySession), args.Error(1)
}

func (m *MockStudySessionRepository) ListByUser(userID uint, limit, offset int) ([]entity.StudySession, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.StudySession), args.Error(1)
}

func (m *MockStudySessionRepository) AttachDocument(sessionID, documentID uint) error {
	args := m.Called(sessionID, documentID)
	return args.Error(0)
}

func (m *MockStudySessionRepository) ListDocuments(sessionID uint) ([]entity.Document, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Document), args.Error(1)
}

func newTestStudyService(t *testing.T) (*StudyService, *MockDocumentRepository, *MockOutputRepository, *MockStudySessionRepository) {
	t.Helper()
	docRepo := new(MockDocumentRepository)
	outputRepo := new(MockOutputRepository)
	sessionRepo := new(MockStudySessionRepository)
	svc, err := NewStudyService(docRepo, outputRepo, sessionRepo)
	require.NoError(t, err)
	return svc, docRepo, outputRepo, sessionRepo
}

func TestRegisterDocument_Success(t *testing.T) {
	svc, docRepo, _, _ := newTestStudyService(t)

	docRepo.On("Create", mock.MatchedBy(func(d *entity.Document) bool {
		return d.UserID == 7 &&
			d.Filename == "notes.pdf" &&
			d.Status == entity.DocumentStatusUploaded &&
			strings.HasPrefix(d.FileURL, "documents/7/") &&
			strings.HasSuffix(d.FileURL, ".pdf")
	})).Return(nil)

	doc, err := svc.RegisterDocument(7, "notes.pdf")
	require.NoError(t, err)
	assert.Equal(t, "notes.pdf", doc.Filename)
	docRepo.AssertExpectations(t)
}

func TestRegisterDocument_EmptyFilename(t *testing.T) {
	svc, _, _, _ := newTestStudyService(t)

	_, err := svc.RegisterDocument(7, "  ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGetDocument_OtherUsersDocument(t *testing.T) {
	svc, docRepo, _, _ := newTestStudyService(t)

	docRepo.On("GetByID", uint(3)).Return(&entity.Document{ID: 3, UserID: 99}, nil)

	_, err := svc.GetDocument(7, 3)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUpdateDocumentStatus_InvalidStatus(t *testing.T) {
	svc, _, _, _ := newTestStudyService(t)

	err := svc.UpdateDocumentStatus(7, 3, "archived")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateDocumentStatus_Success(t *testing.T) {
	svc, docRepo, _, _ := newTestStudyService(t)

	docRepo.On("GetByID", uint(3)).Return(&entity.Document{ID: 3, UserID: 7}, nil)
	docRepo.On("UpdateStatus", uint(3), entity.DocumentStatusReady).Return(nil)

	err := svc.UpdateDocumentStatus(7, 3, entity.DocumentStatusReady)
	require.NoError(t, err)
	docRepo.AssertExpectations(t)
}

func TestListOutputs_ChecksOwnership(t *testing.T) {
	svc, docRepo, outputRepo, _ := newTestStudyService(t)

	docRepo.On("GetByID", uint(3)).Return(&entity.Document{ID: 3, UserID: 7}, nil)
	outputRepo.On("ListByDocument", uint(3)).Return([]entity.Output{
		{ID: 1, DocumentID: 3, Type: entity.OutputTypeSummary, Content: "summary text"},
	}, nil)

	outputs, err := svc.ListOutputs(7, 3)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, entity.OutputTypeSummary, outputs[0].Type)
}

func TestListDocuments_PassesPaginationToRepo(t *testing.T) {
	svc, docRepo, _, _ := newTestStudyService(t)

	docRepo.On("ListByUser", uint(7), 25, 25).Return([]entity.Document{
		{ID: 10, UserID: 7, Filename: "notes.pdf"},
	}, nil)

	docs, err := svc.ListDocuments(7, 2, 25)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	docRepo.AssertExpectations(t)
}

func TestListDocuments_ClampsPagination(t *testing.T) {
	svc, docRepo, _, _ := newTestStudyService(t)

	// page 0 and oversized page_size fall back to page 1 / 100 per page.
	docRepo.On("ListByUser", uint(7), 100, 0).Return([]entity.Document{}, nil)

	_, err := svc.ListDocuments(7, 0, 500)
	require.NoError(t, err)
	docRepo.AssertExpectations(t)
}

func TestListSessions_PassesPaginationToRepo(t *testing.T) {
	svc, _, _, sessionRepo := newTestStudyService(t)

	sessionRepo.On("ListByUser", uint(7), 10, 0).Return([]entity.StudySession{
		{ID: 2, UserID: 7, Name: "exam prep"},
	}, nil)

	sessions, err := svc.ListSessions(7, 1, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	sessionRepo.AssertExpectations(t)
}

func TestCreateSession_Success(t *testing.T) {
	svc, _, _, sessionRepo := newTestStudyService(t)

	sessionRepo.On("Create", mock.MatchedBy(func(s *entity.StudySession) bool {
		return s.UserID == 7 && s.Name == "exam prep"
	})).Return(nil)

	session, err := svc.CreateSession(7, " exam prep ")
	require.NoError(t, err)
	assert.Equal(t, "exam prep", session.Name)
}

func TestAttachDocument_DuplicateIsConflict(t *testing.T) {
	svc, docRepo, _, sessionRepo := newTestStudyService(t)

	sessionRepo.On("GetByID", uint(2)).Return(&entity.StudySession{ID: 2, UserID: 7}, nil)
	docRepo.On("GetByID", uint(3)).Return(&entity.Document{ID: 3, UserID: 7}, nil)
	sessionRepo.On("AttachDocument", uint(2), uint(3)).Return(apperrors.ErrConflict)

	err := svc.AttachDocument(7, 2, 3)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestAttachDocument_ForeignDocumentRejected(t *testing.T) {
	svc, docRepo, _, sessionRepo := newTestStudyService(t)

	sessionRepo.On("GetByID", uint(2)).Return(&entity.StudySession{ID: 2, UserID: 7}, nil)
	docRepo.On("GetByID", uint(3)).Return(&entity.Document{ID: 3, UserID: 99}, nil)

	err := svc.AttachDocument(7, 2, 3)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	sessionRepo.AssertNotCalled(t, "AttachDocument", mock.Anything, mock.Anything)
}

func TestListSessionDocuments_ChecksOwnership(t *testing.T) {
	svc, _, _, sessionRepo := newTestStudyService(t)

	sessionRepo.On("GetByID", uint(2)).Return(&entity.StudySession{ID: 2, UserID: 99}, nil)

	_, err := svc.ListSessionDocuments(7, 2)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
