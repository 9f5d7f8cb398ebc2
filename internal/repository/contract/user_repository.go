package contract

import (
	"context"
	"errors"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/specification"

	"github.com/google/uuid"
)

var (
	ErrDuplicateUsername       = errors.New("duplicate username")
	ErrDuplicateExternalChatId = errors.New("duplicate external chat id")
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	UpdateExternalChatId(ctx context.Context, id uuid.UUID, externalChatId string) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
