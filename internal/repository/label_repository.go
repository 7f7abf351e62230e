package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"deadline-tracker/internal/model"
)

// LabelRepository manages user-defined labels.
type LabelRepository struct {
	db *gorm.DB
}

func NewLabelRepository(db *gorm.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

// GetOrCreate returns the user's label with the given name, creating it on
// the fly if it does not exist yet.
func (r *LabelRepository) GetOrCreate(ctx context.Context, userID uint, name string) (*model.Label, error) {
	if name == "" {
		return nil, nil
	}

	var label model.Label
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ? AND name = ?", userID, name).First(&label).Error
	switch {
	case err == nil:
		return &label, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		label = model.Label{UserID: userID, Name: name}
		if err := db.Create(&label).Error; err != nil {
			return nil, fmt.Errorf("create label: %w", err)
		}
		return &label, nil
	default:
		return nil, fmt.Errorf("find label: %w", err)
	}
}

func (r *LabelRepository) Create(ctx context.Context, label *model.Label) error {
	if err := r.db.WithContext(ctx).Create(label).Error; err != nil {
		return fmt.Errorf("create label: %w", err)
	}
	return nil
}

func (r *LabelRepository) ListByUser(ctx context.Context, userID uint) ([]model.Label, error) {
	var labels []model.Label
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

func (r *LabelRepository) FindByID(ctx context.Context, userID, labelID uint) (*model.Label, error) {
	var label model.Label
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, labelID).First(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

// Delete removes a label and its event associations.
func (r *LabelRepository) Delete(ctx context.Context, userID, labelID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var label model.Label
		if err := tx.Where("user_id = ? AND id = ?", userID, labelID).First(&label).Error; err != nil {
			return err
		}
		if err := tx.Where("label_id = ?", label.ID).Delete(&model.EventLabel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&label).Error
	})
	if err != nil {
		return fmt.Errorf("delete label: %w", err)
	}
	return nil
}
