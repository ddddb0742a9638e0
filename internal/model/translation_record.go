package model

import "time"

// TranslationRecord is one page-range chunk of a file's translation work.
// UserID duplicates the owning file's user for cheap ownership checks.
// PageRange is zero-based half-open, "start-end" meaning pages [start, end).
type TranslationRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FileID         uint      `gorm:"not null;index" json:"file_id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	PageRange      string    `gorm:"size:50;not null" json:"page_range"`
	ExtractedText  string    `gorm:"type:longtext" json:"extracted_text"`
	TranslatedText string    `gorm:"type:longtext" json:"translated_text"`
	EditedText     string    `gorm:"type:longtext" json:"edited_text"`
	CreatedAt      time.Time `json:"created_at"`
	EditedAt       time.Time `gorm:"autoUpdateTime" json:"edited_at"`
}
