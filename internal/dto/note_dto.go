package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title   string   `json:"title" validate:"required,max=255"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags" validate:"omitempty,dive,max=64"`
}

// UpdateNoteRequest distinguishes an omitted field (nil) from an explicit
// empty value, which overwrites.
type UpdateNoteRequest struct {
	Id      uuid.UUID `json:"-"`
	Title   *string   `json:"title" validate:"omitnil,min=1,max=255"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags" validate:"omitnil,dive,max=64"`
}

type NoteResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DeleteNoteResponse struct {
	Id uuid.UUID `json:"id"`
}
