package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/repository"
)

func newImport(db *gorm.DB) *ImportService {
	return NewImportService(
		repository.NewUserRepository(db),
		repository.NewEventRepository(db),
		repository.NewLabelRepository(db),
		time.UTC,
	)
}

const csvHeader = "title,description,due_at,reminders_minutes_before,labels\n"

func TestImportCreatesEventsLabelsReminders(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "heidi", "heidi@example.com")

	csv := csvHeader +
		"Tax filing,Annual return,2024-04-15 17:00,\"1440,60\",Finance;Home\n" +
		"Car service,,2024-05-02 09:30,,\n"

	created, err := newImport(db).Import(context.Background(), "heidi@example.com", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if created != 2 {
		t.Fatalf("created = %d, want 2", created)
	}

	var events []model.Event
	if err := db.Preload("Labels").Preload("Reminders").Order("due_at ASC").Find(&events).Error; err != nil {
		t.Fatalf("load events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	tax := events[0]
	if tax.Title != "Tax filing" || tax.Status != model.StatusOpen {
		t.Errorf("first event = %q status %q", tax.Title, tax.Status)
	}
	if len(tax.Labels) != 2 {
		t.Errorf("first event has %d labels, want 2", len(tax.Labels))
	}
	if len(tax.Reminders) != 2 {
		t.Fatalf("first event has %d reminders, want 2", len(tax.Reminders))
	}
	due := time.Date(2024, 4, 15, 17, 0, 0, 0, time.UTC)
	for _, want := range []time.Time{due.Add(-1440 * time.Minute), due.Add(-60 * time.Minute)} {
		found := false
		for _, reminder := range tax.Reminders {
			if reminder.SendAt.Equal(want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing reminder at %v", want)
		}
	}

	if len(events[1].Reminders) != 0 || len(events[1].Labels) != 0 {
		t.Errorf("second event should have no reminders or labels")
	}
}

func TestImportReusesExistingLabels(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ivan", "ivan@example.com")

	labelRepo := repository.NewLabelRepository(db)
	if _, err := labelRepo.GetOrCreate(context.Background(), user.ID, "Work"); err != nil {
		t.Fatalf("seed label: %v", err)
	}

	csv := csvHeader +
		"One,,2024-06-01 10:00,,Work\n" +
		"Two,,2024-06-02 10:00,,Work\n"
	if _, err := newImport(db).Import(context.Background(), "ivan@example.com", strings.NewReader(csv)); err != nil {
		t.Fatalf("import: %v", err)
	}

	var count int64
	if err := db.Model(&model.Label{}).Where("user_id = ? AND name = ?", user.ID, "Work").Count(&count).Error; err != nil {
		t.Fatalf("count labels: %v", err)
	}
	if count != 1 {
		t.Fatalf("label count = %d, want 1", count)
	}
}

func TestImportAbortsOnInvalidRow(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "judy", "judy@example.com")

	csv := csvHeader +
		"Good row,,2024-06-01 10:00,,\n" +
		"Bad row,,not-a-date,,\n"

	created, err := newImport(db).Import(context.Background(), "judy@example.com", strings.NewReader(csv))
	if created != 0 {
		t.Fatalf("created = %d, want 0", created)
	}

	var rowErrs ImportErrors
	if !errors.As(err, &rowErrs) {
		t.Fatalf("err = %v, want ImportErrors", err)
	}
	if len(rowErrs) != 1 {
		t.Fatalf("got %d row errors, want 1: %v", len(rowErrs), rowErrs)
	}
	if !strings.Contains(rowErrs[0], "Row 3") || !strings.Contains(rowErrs[0], "not-a-date") {
		t.Errorf("row error %q should reference row 3 and the bad value", rowErrs[0])
	}

	var count int64
	if err := db.Model(&model.Event{}).Count(&count).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != 0 {
		t.Fatalf("event count = %d, want 0 (no partial writes)", count)
	}
}

func TestImportAggregatesAllRowErrors(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "ken", "ken@example.com")

	csv := csvHeader +
		",missing title,2024-06-01 10:00,,\n" +
		"Bad offsets,,2024-06-01 10:00,\"60,soon\",\n"

	_, err := newImport(db).Import(context.Background(), "ken@example.com", strings.NewReader(csv))
	var rowErrs ImportErrors
	if !errors.As(err, &rowErrs) {
		t.Fatalf("err = %v, want ImportErrors", err)
	}
	if len(rowErrs) != 2 {
		t.Fatalf("got %d row errors, want 2: %v", len(rowErrs), rowErrs)
	}
	if !strings.Contains(rowErrs[0], "Row 2") || !strings.Contains(rowErrs[0], "missing title") {
		t.Errorf("first error %q", rowErrs[0])
	}
	if !strings.Contains(rowErrs[1], "Row 3") || !strings.Contains(rowErrs[1], "soon") {
		t.Errorf("second error %q", rowErrs[1])
	}
}

func TestImportUnknownUser(t *testing.T) {
	db := newTestDB(t)

	_, err := newImport(db).Import(context.Background(), "ghost@example.com", strings.NewReader(csvHeader))
	if err == nil {
		t.Fatal("expected error for unknown user")
	}
	if !strings.Contains(err.Error(), "ghost@example.com") {
		t.Errorf("error %q should name the email", err)
	}
}
