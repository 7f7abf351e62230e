package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/repository"
)

func newEventService(db *gorm.DB) *EventService {
	return NewEventService(
		repository.NewEventRepository(db),
		repository.NewLabelRepository(db),
		validator.New(),
	)
}

func TestCreateEventWithLabelsAndReminders(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice", "alice@example.com")
	svc := newEventService(db)

	due := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	event, err := svc.CreateEvent(context.Background(), user, EventInput{
		Title:           "Submit report",
		Description:     "Quarterly numbers",
		DueAt:           due,
		Labels:          []string{"work", "urgent"},
		ReminderOffsets: []int{1440, 60},
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if event.Status != model.StatusOpen {
		t.Errorf("status = %q, want open", event.Status)
	}
	if len(event.Labels) != 2 {
		t.Errorf("labels = %d, want 2", len(event.Labels))
	}
	if len(event.Reminders) != 2 {
		t.Errorf("reminders = %d, want 2", len(event.Reminders))
	}

	// A second event reuses the user's existing labels.
	if _, err := svc.CreateEvent(context.Background(), user, EventInput{
		Title:  "Follow up",
		DueAt:  due.Add(24 * time.Hour),
		Labels: []string{"work"},
	}); err != nil {
		t.Fatalf("create second event: %v", err)
	}
	var count int64
	if err := db.Model(&model.Label{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count labels: %v", err)
	}
	if count != 2 {
		t.Fatalf("label count = %d, want 2", count)
	}
}

func TestCreateEventValidation(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "bob", "bob@example.com")
	svc := newEventService(db)

	tests := []struct {
		name  string
		input EventInput
	}{
		{name: "missing title", input: EventInput{DueAt: time.Now()}},
		{name: "missing due date", input: EventInput{Title: "No due"}},
		{name: "negative offset", input: EventInput{Title: "Bad", DueAt: time.Now(), ReminderOffsets: []int{-1}}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateEvent(context.Background(), user, tt.input); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "carol", "carol@example.com")
	svc := newEventService(db)

	event, err := svc.CreateEvent(context.Background(), user, EventInput{Title: "Task", DueAt: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), user, event.ID, model.StatusDone)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != model.StatusDone {
		t.Errorf("status = %q, want done", updated.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), user, event.ID, "closed"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestDeleteEventCascades(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "dave", "dave@example.com")
	svc := newEventService(db)

	event, err := svc.CreateEvent(context.Background(), user, EventInput{
		Title:           "Task",
		DueAt:           time.Now().Add(time.Hour),
		Labels:          []string{"keepme"},
		ReminderOffsets: []int{30},
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	if err := svc.DeleteEvent(context.Background(), user, event.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}

	var reminders, joins, labels int64
	if err := db.Model(&model.Reminder{}).Where("event_id = ?", event.ID).Count(&reminders).Error; err != nil {
		t.Fatalf("count reminders: %v", err)
	}
	if err := db.Model(&model.EventLabel{}).Where("event_id = ?", event.ID).Count(&joins).Error; err != nil {
		t.Fatalf("count joins: %v", err)
	}
	if err := db.Model(&model.Label{}).Where("user_id = ?", user.ID).Count(&labels).Error; err != nil {
		t.Fatalf("count labels: %v", err)
	}
	if reminders != 0 || joins != 0 {
		t.Errorf("cascade left reminders=%d joins=%d", reminders, joins)
	}
	if labels != 1 {
		t.Errorf("labels = %d, want 1 (labels outlive events)", labels)
	}
}

func TestListEventsFiltersByStatus(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "erin", "erin@example.com")
	svc := newEventService(db)

	open, err := svc.CreateEvent(context.Background(), user, EventInput{Title: "Open", DueAt: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	done, err := svc.CreateEvent(context.Background(), user, EventInput{Title: "Done", DueAt: time.Now().Add(2 * time.Hour)})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), user, done.ID, model.StatusDone); err != nil {
		t.Fatalf("update status: %v", err)
	}

	events, err := svc.ListEvents(context.Background(), user, model.StatusOpen)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 || events[0].ID != open.ID {
		t.Fatalf("open filter returned %d events", len(events))
	}

	all, err := svc.ListEvents(context.Background(), user, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all = %d events, want 2", len(all))
	}

	if _, err := svc.ListEvents(context.Background(), user, "trashed"); err == nil {
		t.Fatal("expected error for unknown status filter")
	}
}
