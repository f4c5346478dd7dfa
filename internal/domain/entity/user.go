package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is the local, authoritative identity record. Credential verification
// is delegated to the external identity verifier; FirebaseUID is the join key
// between the two stores.
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Username    string `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email       string `gorm:"size:100;not null;uniqueIndex" json:"email"`
	FirebaseUID string `gorm:"size:128;not null;uniqueIndex" json:"firebase_uid"`

	// Password is unused by any active flow; credentials live in the external
	// verifier. Kept for the hashing helpers below.
	Password string `gorm:"size:100;default:''" json:"-"`

	Tier string `gorm:"size:20;not null;default:'free'" json:"tier"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for GORM.
func (User) TableName() string {
	return "users"
}

// BeforeSave hashes the password before persisting, unless it is already a
// bcrypt hash.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Failed to hash password for email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword reports whether the given password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
