package specification

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteOwnedByUser struct {
	UserID uuid.UUID
}

func (s NoteOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.user_id = ?", s.UserID)
}

// HasTag matches notes whose tags array contains Tag exactly (case-sensitive).
type HasTag struct {
	Tag string
}

func (s HasTag) Apply(db *gorm.DB) *gorm.DB {
	switch db.Dialector.Name() {
	case "postgres":
		needle, _ := json.Marshal([]string{s.Tag})
		return db.Where("notes.tags @> ?::jsonb", string(needle))
	default:
		// SQLite stores the array as a blob; json_each needs text.
		return db.Where("EXISTS (SELECT 1 FROM json_each(CAST(notes.tags AS TEXT)) WHERE json_each.value = ?)", s.Tag)
	}
}
