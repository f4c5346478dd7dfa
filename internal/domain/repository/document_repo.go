package repository

import "github.com/yourusername/quizzy-api/internal/domain/entity"

// DocumentRepository defines data access for uploaded documents.
type DocumentRepository interface {
	Create(doc *entity.Document) error
	GetByID(id uint) (*entity.Document, error)
	ListByUser(userID uint, limit, offset int) ([]entity.Document, error)
	UpdateStatus(docID uint, status string) error
}

// OutputRepository reads generated outputs. Outputs are written by the
// processing pipeline, so there is no Create here.
type OutputRepository interface {
	GetByID(id uint) (*entity.Output, error)
	ListByDocument(documentID uint) ([]entity.Output, error)
}
