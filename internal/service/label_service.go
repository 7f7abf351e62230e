package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/repository"
)

// LabelInput represents data required to create a label.
type LabelInput struct {
	Name   string `validate:"required,max=40"`
	Colour string `validate:"omitempty,hexcolor"`
}

// LabelService provides helpers around labels.
type LabelService struct {
	repo     *repository.LabelRepository
	validate *validator.Validate
}

func NewLabelService(repo *repository.LabelRepository, validate *validator.Validate) *LabelService {
	return &LabelService{repo: repo, validate: validate}
}

func (s *LabelService) List(ctx context.Context, user *model.User) ([]model.Label, error) {
	return s.repo.ListByUser(ctx, user.ID)
}

func (s *LabelService) Create(ctx context.Context, user *model.User, input LabelInput) (*model.Label, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	label := model.Label{UserID: user.ID, Name: input.Name, Colour: input.Colour}
	if err := s.repo.Create(ctx, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

func (s *LabelService) Delete(ctx context.Context, user *model.User, labelID uint) error {
	return s.repo.Delete(ctx, user.ID, labelID)
}
