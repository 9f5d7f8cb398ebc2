package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id             uuid.UUID
	Username       string
	PasswordHash   string
	ExternalChatId *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
