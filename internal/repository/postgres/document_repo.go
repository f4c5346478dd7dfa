package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizzy-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizzy-api/internal/pkg/errors"
)

// DocumentRepo implements repository.DocumentRepository.
type DocumentRepo struct {
	db *gorm.DB
}

func NewDocumentRepo(db *gorm.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) Create(doc *entity.Document) error {
	return r.db.Create(doc).Error
}

func (r *DocumentRepo) GetByID(id uint) (*entity.Document, error) {
	var doc entity.Document
	err := r.db.First(&doc, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepo) ListByUser(userID uint, limit, offset int) ([]entity.Document, error) {
	var docs []entity.Document
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&docs).Error
	return docs, err
}

func (r *DocumentRepo) UpdateStatus(docID uint, status string) error {
	result := r.db.Model(&entity.Document{}).
		Where("id = ?", docID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// OutputRepo implements repository.OutputRepository.
type OutputRepo struct {
	db *gorm.DB
}

func NewOutputRepo(db *gorm.DB) *OutputRepo {
	return &OutputRepo{db: db}
}

func (r *OutputRepo) GetByID(id uint) (*entity.Output, error) {
	var out entity.Output
	err := r.db.First(&out, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *OutputRepo) ListByDocument(documentID uint) ([]entity.Output, error) {
	var outs []entity.Output
	err := r.db.
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&outs).Error
	return outs, err
}
