package model

import "time"

// User owns events and labels and receives reminder emails.
// Email may be empty; reminders for such users stay pending until it is set.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex"`
	Email     string `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
