package model

import "time"

const (
	PromptTypeTranslation = "translation"
	PromptTypeEditing     = "editing"
)

// Prompt is a reusable system/user instruction template. The newest prompt
// of a type serves as the default when a request carries no override.
type Prompt struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	SystemMessage string    `gorm:"type:text;not null" json:"system_message"`
	UserMessage   string    `gorm:"type:text;not null" json:"user_message"`
	PromptType    string    `gorm:"size:50;not null;index" json:"prompt_type"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
