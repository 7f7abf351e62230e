package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username, email string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: email}
	if err := repository.NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createEvent(t *testing.T, db *gorm.DB, event *model.Event) *model.Event {
	t.Helper()
	if err := repository.NewEventRepository(db).Create(context.Background(), event); err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}

type sentMail struct {
	subject string
	body    string
	from    string
	to      []string
}

// fakeMailer records sent mail. If failAt is non-zero, the failAt-th send
// (1-based) returns an error without recording.
type fakeMailer struct {
	sent   []sentMail
	failAt int
}

func (m *fakeMailer) Send(subject, body, from string, to []string) error {
	if m.failAt != 0 && len(m.sent)+1 == m.failAt {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{subject: subject, body: body, from: from, to: to})
	return nil
}
