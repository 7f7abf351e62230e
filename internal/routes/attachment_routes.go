package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/repository"
	"deadline-tracker/internal/service"
)

// AttachmentRoutes exposes attachment upload and download over HTTP.
type AttachmentRoutes struct {
	attachments *service.AttachmentService
	users       *repository.UserRepository
}

func NewAttachmentRoutes(attachments *service.AttachmentService, users *repository.UserRepository) *AttachmentRoutes {
	return &AttachmentRoutes{attachments: attachments, users: users}
}

type attachmentResponse struct {
	ID        uint      `json:"id"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func newAttachmentResponse(a model.Attachment) attachmentResponse {
	return attachmentResponse{
		ID:        a.ID,
		FileName:  a.FileName,
		MimeType:  a.MimeType,
		Size:      a.Size,
		CreatedAt: a.CreatedAt,
	}
}

// Upload stores a multipart file field named "file" against the event.
func (r *AttachmentRoutes) Upload(c echo.Context) error {
	user, err := currentUser(c, r.users)
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	header, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file field")
	}
	src, err := header.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer src.Close()

	attachment, err := r.attachments.Save(c.Request().Context(), user, eventID, header.Filename, src)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, newAttachmentResponse(*attachment))
}

func (r *AttachmentRoutes) List(c echo.Context) error {
	user, err := currentUser(c, r.users)
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	attachments, err := r.attachments.List(c.Request().Context(), user, eventID)
	if err != nil {
		return serviceError(err)
	}
	resp := make([]attachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		resp = append(resp, newAttachmentResponse(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"attachments": resp})
}

// Download streams the stored file with its recorded mime type.
func (r *AttachmentRoutes) Download(c echo.Context) error {
	user, err := currentUser(c, r.users)
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	attachmentID, err := pathID(c, "attachmentID")
	if err != nil {
		return err
	}
	attachment, err := r.attachments.Get(c.Request().Context(), user, eventID, attachmentID)
	if err != nil {
		return serviceError(err)
	}
	return c.Attachment(attachment.StoredPath, attachment.FileName)
}
