package model

import "time"

// Event statuses. Done and archived events are hidden from the default list.
const (
	StatusOpen     = "open"
	StatusDone     = "done"
	StatusArchived = "archived"
)

// Event represents a deadline with a due date, owned by a single user.
// Deleting an event removes its reminders, attachments and label links.
type Event struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index"`
	Title       string
	Description string
	DueAt       time.Time
	Status      string `gorm:"default:open"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	User        User
	Labels      []Label      `gorm:"many2many:event_labels"`
	Reminders   []Reminder   `gorm:"constraint:OnDelete:CASCADE"`
	Attachments []Attachment `gorm:"constraint:OnDelete:CASCADE"`
}

// EventLabel is the explicit join row between events and labels.
type EventLabel struct {
	EventID uint      `gorm:"primaryKey"`
	LabelID uint      `gorm:"primaryKey"`
	AddedAt time.Time `gorm:"autoCreateTime"`
}
