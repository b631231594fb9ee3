package model

import "time"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a role-tagged entry in a session's in-memory history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ArchivedMessage is one row of the write-only turn archive. Live
// conversation history is held in memory by the session and is never
// reloaded from this table.
type ArchivedMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"size:64;not null;index" json:"session_id"`
	SourceID  string    `gorm:"size:128;not null;index" json:"source_id"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
