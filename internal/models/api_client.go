package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// APIClient is a service caller (the platform's edge functions, internal
// tools) authorized to invoke the moderation API with an API key. Only the
// bcrypt hash of the key is stored.
type APIClient struct {
	ID      string `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"uniqueIndex"`
	KeyHash string `json:"-"`
	Enabled bool   `json:"enabled" gorm:"default:true"`

	LastSeen  *time.Time `json:"last_seen,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (a *APIClient) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

// SetKey hashes and stores the plaintext API key.
func (a *APIClient) SetKey(key string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.KeyHash = string(hash)
	return nil
}

// CheckKey compares a presented key with the stored hash.
func (a *APIClient) CheckKey(key string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.KeyHash), []byte(key)) == nil
}
