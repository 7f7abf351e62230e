package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/repository"
)

// userEmailHeader identifies the acting user. A full auth stack is out of
// scope; callers are expected to sit behind a trusted proxy.
const userEmailHeader = "X-User-Email"

// currentUser resolves the acting user from the request header.
func currentUser(c echo.Context, users *repository.UserRepository) (*model.User, error) {
	email := c.Request().Header.Get(userEmailHeader)
	if email == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing "+userEmailHeader+" header")
	}
	user, err := users.FindByEmail(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
		}
		return nil, err
	}
	return user, nil
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" is not a number")
	}
	return uint(id), nil
}

// serviceError maps service-layer failures to HTTP errors.
func serviceError(err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		return echo.NewHTTPError(http.StatusBadRequest, invalid.Error())
	}
	return err
}
