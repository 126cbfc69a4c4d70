package model

import "time"

// User represents an operator or application identity. Only a digest of the
// API key is stored; the plaintext is shown once at creation.
type User struct {
	Login        string    `gorm:"column:login;primaryKey"`
	Role         string    `gorm:"column:role"`
	APIKeyDigest []byte    `gorm:"column:api_key_digest;type:bytea"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
