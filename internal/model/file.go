package model

import "time"

// File is one uploaded PDF. ContentHash is the SHA-256 of the raw bytes;
// together with UserID it forms the per-owner dedup constraint.
type File struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index;uniqueIndex:idx_file_owner_hash" json:"user_id"`
	Filename     string    `gorm:"size:255;not null" json:"filename"`
	ContentHash  string    `gorm:"size:64;not null;uniqueIndex:idx_file_owner_hash" json:"-"`
	FilePath     string    `gorm:"size:255;not null" json:"file_path"`
	PageCount    int       `gorm:"not null" json:"page_count"`
	PageRange    string    `gorm:"size:50" json:"page_range"`
	SystemPrompt string    `gorm:"type:text" json:"system_prompt"`
	UserPrompt   string    `gorm:"type:text" json:"user_prompt"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
