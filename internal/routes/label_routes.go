package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/repository"
	"deadline-tracker/internal/service"
)

// LabelRoutes exposes label CRUD over HTTP.
type LabelRoutes struct {
	labels *service.LabelService
	users  *repository.UserRepository
}

func NewLabelRoutes(labels *service.LabelService, users *repository.UserRepository) *LabelRoutes {
	return &LabelRoutes{labels: labels, users: users}
}

type createLabelRequest struct {
	Name   string `json:"name"`
	Colour string `json:"colour"`
}

type labelResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Colour    string    `json:"colour,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newLabelResponse(label model.Label) labelResponse {
	return labelResponse{
		ID:        label.ID,
		Name:      label.Name,
		Colour:    label.Colour,
		CreatedAt: label.CreatedAt,
	}
}

func (r *LabelRoutes) List(c echo.Context) error {
	user, err := currentUser(c, r.users)
	if err != nil {
		return err
	}
	labels, err := r.labels.List(c.Request().Context(), user)
	if err != nil {
		return serviceError(err)
	}
	resp := make([]labelResponse, 0, len(labels))
	for _, label := range labels {
		resp = append(resp, newLabelResponse(label))
	}
	return c.JSON(http.StatusOK, echo.Map{"labels": resp})
}

func (r *LabelRoutes) Create(c echo.Context) error {
	user, err := currentUser(c, r.users)
	if err != nil {
		return err
	}
	var req createLabelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	label, err := r.labels.Create(c.Request().Context(), user, service.LabelInput{
		Name:   req.Name,
		Colour: req.Colour,
	})
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, newLabelResponse(*label))
}

func (r *LabelRoutes) Delete(c echo.Context) error {
	user, err := currentUser(c, r.users)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := r.labels.Delete(c.Request().Context(), user, id); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
