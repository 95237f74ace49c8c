package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a voter account. The JSON shape of this struct is the
// projection exposed by the API; the password hash is never serialized.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name         string     `json:"name" gorm:"size:100"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	IsStaff      bool       `json:"is_staff" gorm:"default:false"`
	IsActive     bool       `json:"is_active" gorm:"default:true;index"`
	DateJoined   time.Time  `json:"date_joined" gorm:"autoCreateTime"`
	LastLogin    *time.Time `json:"last_login"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
