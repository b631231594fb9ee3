package model

import "time"

// LinkEntry is one named spreadsheet link in the registry. Names are display
// labels only and are not required to be unique.
type LinkEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	URL       string    `gorm:"size:1024;not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
