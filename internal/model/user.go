package model

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email          string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"`
	PreferredModel string    `gorm:"size:64" json:"preferred_model"`
	APIKey         string    `gorm:"size:255" json:"-"` // personal completion-provider key
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
