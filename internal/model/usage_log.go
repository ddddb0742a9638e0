package model

import "time"

// UsageLog records token usage of one completion-provider call.
// Rows are written asynchronously by the usage persist worker.
type UsageLog struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	TranslationID    uint      `gorm:"index" json:"translation_id"` // 0 for ad-hoc calls
	Operation        string    `gorm:"size:32;not null" json:"operation"`
	Model            string    `gorm:"size:64;not null" json:"model"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	CreatedAt        time.Time `json:"created_at"`
}
