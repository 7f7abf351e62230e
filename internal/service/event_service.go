package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/repository"
)

// EventInput represents data required to create an event.
type EventInput struct {
	Title       string    `validate:"required,max=200"`
	Description string
	DueAt       time.Time `validate:"required"`
	Labels      []string
	// ReminderOffsets are minutes before DueAt at which to send a reminder.
	ReminderOffsets []int `validate:"dive,min=0"`
}

// EventService wraps event-related business logic.
type EventService struct {
	events   *repository.EventRepository
	labels   *repository.LabelRepository
	validate *validator.Validate
}

func NewEventService(events *repository.EventRepository, labels *repository.LabelRepository, validate *validator.Validate) *EventService {
	return &EventService{events: events, labels: labels, validate: validate}
}

// CreateEvent validates the input, resolves label names to the user's labels
// (creating missing ones) and persists the event together with its reminders.
func (s *EventService) CreateEvent(ctx context.Context, user *model.User, input EventInput) (*model.Event, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	labels := make([]model.Label, 0, len(input.Labels))
	for _, name := range input.Labels {
		label, err := s.labels.GetOrCreate(ctx, user.ID, name)
		if err != nil {
			return nil, err
		}
		if label != nil {
			labels = append(labels, *label)
		}
	}

	event := model.Event{
		UserID:      user.ID,
		Title:       input.Title,
		Description: input.Description,
		DueAt:       input.DueAt,
		Status:      model.StatusOpen,
		Labels:      labels,
		Reminders:   BuildReminders(input.DueAt, input.ReminderOffsets),
	}

	if err := s.events.Create(ctx, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *EventService) ListEvents(ctx context.Context, user *model.User, status string) ([]model.Event, error) {
	if status != "" {
		if err := s.validate.Var(status, "oneof=open done archived"); err != nil {
			return nil, fmt.Errorf("invalid status %q: %w", status, err)
		}
	}
	return s.events.ListByUser(ctx, user.ID, status)
}

func (s *EventService) GetEvent(ctx context.Context, user *model.User, eventID uint) (*model.Event, error) {
	return s.events.FindByID(ctx, user.ID, eventID)
}

// UpdateStatus moves an event between open, done and archived.
func (s *EventService) UpdateStatus(ctx context.Context, user *model.User, eventID uint, status string) (*model.Event, error) {
	if err := s.validate.Var(status, "oneof=open done archived"); err != nil {
		return nil, fmt.Errorf("invalid status %q: %w", status, err)
	}

	event, err := s.events.FindByID(ctx, user.ID, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.events.UpdateStatus(ctx, event, status); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent removes an event and everything it owns.
func (s *EventService) DeleteEvent(ctx context.Context, user *model.User, eventID uint) error {
	return s.events.Delete(ctx, user.ID, eventID)
}
