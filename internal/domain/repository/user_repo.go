package repository

import (
	"github.com/yourusername/quizzy-api/internal/domain/entity"
)

// UserRepository defines data access for local user records.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	// GetByEmailOrUsername returns the first record matching either value.
	// Used for the duplicate check before any external side effect.
	GetByEmailOrUsername(email, username string) (*entity.User, error)
	// GetByFirebaseUID looks up the local record by the verifier's subject id.
	GetByFirebaseUID(firebaseUID string) (*entity.User, error)
	UpdateProfile(userID uint, updates map[string]interface{}) error
	List(limit, offset int) ([]entity.User, error)
}
