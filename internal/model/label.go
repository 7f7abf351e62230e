package model

import "time"

// Label is a user-defined tag for events. Names are unique per user.
type Label struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"index:idx_user_label_name,unique"`
	Name   string `gorm:"index:idx_user_label_name,unique"`
	// Colour is an optional hexadecimal colour code (e.g. #ff0000).
	Colour    string
	CreatedAt time.Time
}
