package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/repository"
	"deadline-tracker/internal/service"
)

// EventRoutes exposes event CRUD over HTTP.
type EventRoutes struct {
	events *service.EventService
	users  *repository.UserRepository
}

func NewEventRoutes(events *service.EventService, users *repository.UserRepository) *EventRoutes {
	return &EventRoutes{events: events, users: users}
}

type createEventRequest struct {
	Title                  string    `json:"title"`
	Description            string    `json:"description"`
	DueAt                  time.Time `json:"due_at"`
	Labels                 []string  `json:"labels"`
	RemindersMinutesBefore []int     `json:"reminders_minutes_before"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type eventResponse struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	DueAt       time.Time          `json:"due_at"`
	Status      string             `json:"status"`
	Labels      []labelResponse    `json:"labels,omitempty"`
	Reminders   []reminderResponse `json:"reminders,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type reminderResponse struct {
	ID      uint       `json:"id"`
	Channel string     `json:"channel"`
	SendAt  time.Time  `json:"send_at"`
	IsSent  bool       `json:"is_sent"`
	SentAt  *time.Time `json:"sent_at,omitempty"`
}

func newEventResponse(event *model.Event) eventResponse {
	resp := eventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		DueAt:       event.DueAt,
		Status:      event.Status,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
	for _, label := range event.Labels {
		resp.Labels = append(resp.Labels, newLabelResponse(label))
	}
	for _, reminder := range event.Reminders {
		resp.Reminders = append(resp.Reminders, reminderResponse{
			ID:      reminder.ID,
			Channel: reminder.Channel,
			SendAt:  reminder.SendAt,
			IsSent:  reminder.IsSent,
			SentAt:  reminder.SentAt,
		})
	}
	return resp
}

func (r *EventRoutes) List(c echo.Context) error {
	user, err := currentUser(c, r.users)
	if err != nil {
		return err
	}
	events, err := r.events.ListEvents(c.Request().Context(), user, c.QueryParam("status"))
	if err != nil {
		return serviceError(err)
	}
	resp := make([]eventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, newEventResponse(&events[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"events": resp})
}

func (r *EventRoutes) Create(c echo.Context) error {
	user, err := currentUser(c, r.users)
	if err != nil {
		return err
	}
	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	event, err := r.events.CreateEvent(c.Request().Context(), user, service.EventInput{
		Title:           req.Title,
		Description:     req.Description,
		DueAt:           req.DueAt,
		Labels:          req.Labels,
		ReminderOffsets: req.RemindersMinutesBefore,
	})
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, newEventResponse(event))
}

func (r *EventRoutes) Get(c echo.Context) error {
	user, err := currentUser(c, r.users)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	event, err := r.events.GetEvent(c.Request().Context(), user, id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, newEventResponse(event))
}

func (r *EventRoutes) UpdateStatus(c echo.Context) error {
	user, err := currentUser(c, r.users)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	event, err := r.events.UpdateStatus(c.Request().Context(), user, id, req.Status)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, newEventResponse(event))
}

func (r *EventRoutes) Delete(c echo.Context) error {
	user, err := currentUser(c, r.users)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := r.events.DeleteEvent(c.Request().Context(), user, id); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
