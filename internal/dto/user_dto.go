package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username   string  `json:"username" validate:"required,min=3,max=64"`
	Password   string  `json:"password" validate:"required,min=6,max=72"`
	ExternalId *string `json:"external_id" validate:"omitempty,min=1,max=64"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginByExternalIdRequest struct {
	ExternalId string `json:"external_id" validate:"required,max=64"`
}

type AttachExternalIdRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	ExternalId string `json:"external_id" validate:"required,max=64"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	Id         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	ExternalId *string   `json:"external_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
