package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"deadline-tracker/internal/model"
)

// ReminderRepository reads and updates scheduled reminders.
type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// ListDue returns unsent reminders whose send time has passed, oldest first,
// capped at limit. Each reminder is loaded with its event, the event owner
// and the event labels so the caller can render a notification without
// further queries.
func (r *ReminderRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).
		Preload("Event.User").
		Preload("Event.Labels").
		Where("is_sent = ? AND send_at <= ?", false, now).
		Order("send_at ASC").
		Limit(limit).
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	return reminders, nil
}

// MarkSent flips a reminder to sent and stamps the delivery time. The update
// is guarded on is_sent = false so a replayed call never re-stamps a
// reminder that already went out.
func (r *ReminderRepository) MarkSent(ctx context.Context, reminder *model.Reminder, sentAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Reminder{}).
		Where("id = ? AND is_sent = ?", reminder.ID, false).
		Updates(map[string]interface{}{"is_sent": true, "sent_at": sentAt})
	if res.Error != nil {
		return fmt.Errorf("mark reminder sent: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		reminder.IsSent = true
		reminder.SentAt = &sentAt
	}
	return nil
}
