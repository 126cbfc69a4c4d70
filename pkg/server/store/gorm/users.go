package gorm

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/modelbase/modelbase/pkg/model"
	"github.com/modelbase/modelbase/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// CreateUser creates a user with a fresh API key and returns its plaintext.
func (s *UsersStore) CreateUser(login, role string) (string, error) {
	if _, err := s.GetUser(login); err == nil {
		return "", store.ErrUserExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return "", err
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		return "", err
	}

	user := model.User{
		Login:        login,
		Role:         role,
		APIKeyDigest: apiKeyDigest(apiKey),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return "", err
	}
	return apiKey, nil
}

// GetUser retrieves a user by login.
func (s *UsersStore) GetUser(login string) (*model.User, error) {
	var user model.User
	tx := s.db.Where("login = ?", login).First(&user)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return &user, nil
}

// ValidateAPIKey validates an API key against the stored digest.
func (s *UsersStore) ValidateAPIKey(user *model.User, apiKey []byte) bool {
	digest := apiKeyDigest(string(apiKey))
	return subtle.ConstantTimeCompare(user.APIKeyDigest, digest) == 1
}

// RotateAPIKey generates and stores a new API key for a user.
func (s *UsersStore) RotateAPIKey(login string) (string, error) {
	apiKey, err := generateAPIKey()
	if err != nil {
		return "", err
	}

	tx := s.db.Model(&model.User{}).Where("login = ?", login).
		Update("api_key_digest", apiKeyDigest(apiKey))
	if tx.Error != nil {
		return "", tx.Error
	}
	if tx.RowsAffected == 0 {
		return "", store.ErrUserNotFound
	}
	return apiKey, nil
}

func generateAPIKey() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func apiKeyDigest(apiKey string) []byte {
	digest := sha256.Sum256([]byte(apiKey))
	return digest[:]
}
