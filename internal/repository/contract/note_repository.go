package contract

import (
	"context"
	"time"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// ApplyPatch updates only the fields present in patch on the note (id, userId).
	// It reports false when no such note exists for that owner.
	ApplyPatch(ctx context.Context, id, userId uuid.UUID, patch entity.NotePatch, updatedAt time.Time) (bool, error)
	// Delete removes the note (id, userId) permanently and reports whether it existed.
	Delete(ctx context.Context, id, userId uuid.UUID) (bool, error)
}
