package dto

import (
	"time"

	"github.com/yourusername/quizzy-api/internal/domain/entity"
)

// UserDTO is the public representation of a user.
type UserDTO struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirebaseUID string    `json:"firebase_uid"`
	Tier        string    `json:"tier"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserDTO converts a user entity to its public representation.
func NewUserDTO(user *entity.User) *UserDTO {
	return &UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirebaseUID: user.FirebaseUID,
		Tier:        user.Tier,
		CreatedAt:   user.CreatedAt,
	}
}
