package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/repository"
)

// AttachmentService stores event file attachments under the media root, in a
// subdirectory named after the event ID. Files are renamed to a generated
// key; the original file name is kept in the record.
type AttachmentService struct {
	attachments *repository.AttachmentRepository
	events      *repository.EventRepository
	mediaRoot   string
}

func NewAttachmentService(attachments *repository.AttachmentRepository, events *repository.EventRepository, mediaRoot string) *AttachmentService {
	return &AttachmentService{attachments: attachments, events: events, mediaRoot: mediaRoot}
}

// Save writes the file to disk and records its metadata. The mime type is
// guessed from the file name extension, like the system this data model
// comes from; unknown extensions fall back to application/octet-stream.
func (s *AttachmentService) Save(ctx context.Context, user *model.User, eventID uint, fileName string, r io.Reader) (*model.Attachment, error) {
	event, err := s.events.FindByID(ctx, user.ID, eventID)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.mediaRoot, "attachments", strconv.FormatUint(uint64(event.ID), 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create attachment dir: %w", err)
	}

	ext := filepath.Ext(fileName)
	storedPath := filepath.Join(dir, uuid.NewString()+ext)
	f, err := os.Create(storedPath)
	if err != nil {
		return nil, fmt.Errorf("create attachment file: %w", err)
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(storedPath)
		return nil, fmt.Errorf("write attachment file: %w", err)
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	attachment := model.Attachment{
		EventID:    event.ID,
		FileName:   fileName,
		StoredPath: storedPath,
		MimeType:   mimeType,
		Size:       size,
	}
	if err := s.attachments.Create(ctx, &attachment); err != nil {
		os.Remove(storedPath)
		return nil, err
	}
	return &attachment, nil
}

func (s *AttachmentService) List(ctx context.Context, user *model.User, eventID uint) ([]model.Attachment, error) {
	event, err := s.events.FindByID(ctx, user.ID, eventID)
	if err != nil {
		return nil, err
	}
	return s.attachments.ListByEvent(ctx, event.ID)
}

// Get returns the attachment record for download; the caller serves
// StoredPath from disk.
func (s *AttachmentService) Get(ctx context.Context, user *model.User, eventID, attachmentID uint) (*model.Attachment, error) {
	event, err := s.events.FindByID(ctx, user.ID, eventID)
	if err != nil {
		return nil, err
	}
	return s.attachments.FindByID(ctx, event.ID, attachmentID)
}
