package model

import "time"

// ChannelEmail is the only delivery channel currently supported. The column
// exists so new channels can be added without a schema change.
const ChannelEmail = "email"

// Reminder is a scheduled one-time notification for an event. SendAt is
// computed once at creation and never changes; IsSent flips false to true
// exactly once, together with SentAt, when delivery succeeds.
type Reminder struct {
	ID        uint      `gorm:"primaryKey"`
	EventID   uint      `gorm:"index"`
	Channel   string    `gorm:"default:email"`
	SendAt    time.Time `gorm:"index:idx_reminder_pending,priority:2"`
	IsSent    bool      `gorm:"default:false;index:idx_reminder_pending,priority:1"`
	SentAt    *time.Time
	CreatedAt time.Time

	Event Event
}
