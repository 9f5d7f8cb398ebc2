package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Content   string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NotePatch is a partial update. A nil field is left untouched; a non-nil
// field overwrites, even when it points at "" or an empty slice.
type NotePatch struct {
	Title   *string
	Content *string
	Tags    *[]string
}
