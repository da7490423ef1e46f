package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the profile owner; its optional extension lives in UserProfile.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName  string         `gorm:"size:200" json:"full_name"`
	Email     string         `gorm:"size:255;uniqueIndex" json:"email"`
	Mobile    string         `gorm:"size:20;index" json:"mobile"`
	Role      string         `gorm:"size:20;default:'user'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Profile   *UserProfile   `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

type UserProfile struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	AvatarURL   string    `gorm:"type:text" json:"avatar_url,omitempty"`
	Bio         string    `gorm:"type:text" json:"bio,omitempty"`
	AddressLine string    `gorm:"size:255" json:"address_line,omitempty"`
	City        string    `gorm:"size:100" json:"city,omitempty"`
	State       string    `gorm:"size:100" json:"state,omitempty"`
	Country     string    `gorm:"size:100" json:"country,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
