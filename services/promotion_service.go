package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mesaja/seating/models"
	"github.com/mesaja/seating/notify"
)

type PromotionInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Rules       *string `json:"rules"`
	Status      *string `json:"status"`
}

type PromotionPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Rules       *string `json:"rules"`
	Status      *string `json:"status"`
}

// PromotionService manages promotions. New promotions are announced to the
// staff group.
type PromotionService struct {
	store *Store
}

func NewPromotionService(store *Store) *PromotionService {
	return &PromotionService{store: store}
}

func (s *PromotionService) Create(ctx context.Context, input PromotionInput) (*models.Promotion, error) {
	promotion := &models.Promotion{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Rules:       input.Rules,
		Status:      models.PromotionActive,
	}
	if promotion.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be blank"}
	}
	if promotion.Description == "" {
		return nil, &ValidationError{Field: "description", Message: "must not be blank"}
	}
	if input.Status != nil {
		if err := validatePromotionStatus(*input.Status); err != nil {
			return nil, err
		}
		promotion.Status = *input.Status
	}

	if err := s.store.db.WithContext(ctx).Create(promotion).Error; err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}

	s.store.notifier.EmitMarkdown(notify.KindPromotion,
		fmt.Sprintf("Promotion '%s' was created.", promotion.Name),
		announcement(promotion))
	return promotion, nil
}

// announcement renders the group chat post for a new promotion.
func announcement(p *models.Promotion) string {
	rules := "N/A"
	if p.Rules != nil && strings.TrimSpace(*p.Rules) != "" {
		rules = *p.Rules
	}
	return fmt.Sprintf("*New promotion\\!*\n\n*%s*\n%s\n\n_Rules: %s_",
		notify.EscapeMarkdown(p.Name),
		notify.EscapeMarkdown(p.Description),
		notify.EscapeMarkdown(rules))
}

func (s *PromotionService) List(ctx context.Context) ([]models.Promotion, error) {
	var promotions []models.Promotion
	if err := s.store.db.WithContext(ctx).Order("name asc").Find(&promotions).Error; err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	return promotions, nil
}

func (s *PromotionService) Get(ctx context.Context, id uint) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := s.store.db.WithContext(ctx).First(&promotion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "promotion", ID: id}
		}
		return nil, fmt.Errorf("failed to find promotion: %w", err)
	}
	return &promotion, nil
}

func (s *PromotionService) Update(ctx context.Context, id uint, patch PromotionPatch) (*models.Promotion, error) {
	promotion, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, &ValidationError{Field: "name", Message: "must not be blank"}
		}
		promotion.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		if strings.TrimSpace(*patch.Description) == "" {
			return nil, &ValidationError{Field: "description", Message: "must not be blank"}
		}
		promotion.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Rules != nil {
		promotion.Rules = patch.Rules
	}
	if patch.Status != nil {
		if err := validatePromotionStatus(*patch.Status); err != nil {
			return nil, err
		}
		promotion.Status = *patch.Status
	}

	if err := s.store.db.WithContext(ctx).Save(promotion).Error; err != nil {
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}

	s.store.notifier.Emit(notify.KindPromotion, fmt.Sprintf("Promotion '%s' was updated.", promotion.Name))
	return promotion, nil
}

func (s *PromotionService) Delete(ctx context.Context, id uint) error {
	promotion, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.db.WithContext(ctx).Delete(promotion).Error; err != nil {
		return fmt.Errorf("failed to delete promotion: %w", err)
	}

	s.store.notifier.Emit(notify.KindPromotion, fmt.Sprintf("Promotion '%s' was removed.", promotion.Name))
	return nil
}

func validatePromotionStatus(status string) error {
	if status != models.PromotionActive && status != models.PromotionInactive {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown promotion status %q", status)}
	}
	return nil
}
