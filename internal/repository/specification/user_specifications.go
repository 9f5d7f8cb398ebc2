package specification

import (
	"gorm.io/gorm"
)

type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

type ByExternalChatID struct {
	ExternalChatID string
}

func (s ByExternalChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("external_chat_id = ?", s.ExternalChatID)
}
