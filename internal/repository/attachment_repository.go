package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"deadline-tracker/internal/model"
)

// AttachmentRepository handles attachment records. File bytes live on disk;
// only metadata and the stored path are persisted here.
type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, attachment *model.Attachment) error {
	if err := r.db.WithContext(ctx).Create(attachment).Error; err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}
	return nil
}

func (r *AttachmentRepository) ListByEvent(ctx context.Context, eventID uint) ([]model.Attachment, error) {
	var attachments []model.Attachment
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).
		Order("created_at ASC").Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *AttachmentRepository) FindByID(ctx context.Context, eventID, attachmentID uint) (*model.Attachment, error) {
	var attachment model.Attachment
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND id = ?", eventID, attachmentID).
		First(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}
