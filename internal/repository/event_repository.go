package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"deadline-tracker/internal/model"
)

// EventRepository handles CRUD for events and their owned records.
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create persists an event together with its reminders and label links.
// Labels must already exist; only join rows are written for them.
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// CreateAll persists a batch of events in a single transaction, so an import
// either commits every event or none of them.
func (r *EventRepository) CreateAll(ctx context.Context, events []*model.Event) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, event := range events {
			if err := tx.Create(event).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create events: %w", err)
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, userID, eventID uint) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).
		Preload("Labels").
		Preload("Reminders").
		Preload("Attachments").
		Where("user_id = ? AND id = ?", userID, eventID).
		First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ListByUser returns the user's events ordered by due date. An empty status
// returns everything; otherwise only events in that status.
func (r *EventRepository) ListByUser(ctx context.Context, userID uint, status string) ([]model.Event, error) {
	db := r.db.WithContext(ctx).Preload("Labels").Where("user_id = ?", userID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	var events []model.Event
	if err := db.Order("due_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) UpdateStatus(ctx context.Context, event *model.Event, status string) error {
	if err := r.db.WithContext(ctx).Model(event).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error; err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	return nil
}

// Delete removes an event and cascades to its reminders, attachments and
// label links.
func (r *EventRepository) Delete(ctx context.Context, userID, eventID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.Event
		if err := tx.Where("user_id = ? AND id = ?", userID, eventID).First(&event).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&model.Reminder{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&model.EventLabel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
