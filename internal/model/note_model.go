package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Note timestamps are written by the service clock, not by GORM.
type Note struct {
	Id        uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Owner     *User                       `gorm:"foreignKey:UserId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Title     string                      `gorm:"type:varchar(255);not null"`
	Content   string                      `gorm:"type:text;not null"`
	Tags      datatypes.JSONSlice[string] `gorm:"not null"`
	CreatedAt time.Time                   `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt time.Time                   `gorm:"not null;autoUpdateTime:false"`
}

func (Note) TableName() string {
	return "notes"
}

// All returns every model AutoMigrate must know about, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Note{},
	}
}
