package model

import "time"

// Attachment is a file stored for an event, kept under the media root in a
// subdirectory named after the event ID.
type Attachment struct {
	ID         uint `gorm:"primaryKey"`
	EventID    uint `gorm:"index"`
	FileName   string
	StoredPath string
	MimeType   string
	Size       int64
	CreatedAt  time.Time
}
