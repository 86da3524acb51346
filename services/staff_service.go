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

// WaiterInput creates a waiter. Status defaults to active.
type WaiterInput struct {
	Name       string  `json:"name"`
	TelegramID *string `json:"telegram_id"`
	Status     *string `json:"status"`
}

// WaiterPatch changes a waiter. Nil fields are left untouched; an empty
// TelegramID clears it.
type WaiterPatch struct {
	Name       *string `json:"name"`
	TelegramID *string `json:"telegram_id"`
	Status     *string `json:"status"`
}

// StaffService manages waiters and the messages exchanged with them.
type StaffService struct {
	store *Store
}

func NewStaffService(store *Store) *StaffService {
	return &StaffService{store: store}
}

func (s *StaffService) CreateWaiter(ctx context.Context, input WaiterInput) (*models.Waiter, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be blank"}
	}
	waiter := &models.Waiter{
		Name:       name,
		TelegramID: normalizeChatID(input.TelegramID),
		Status:     models.WaiterActive,
	}
	if input.Status != nil {
		if err := validateWaiterStatus(*input.Status); err != nil {
			return nil, err
		}
		waiter.Status = *input.Status
	}

	if err := s.store.db.WithContext(ctx).Create(waiter).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateWaiter(waiter.TelegramID)
		}
		return nil, fmt.Errorf("failed to create waiter: %w", err)
	}

	s.store.notifier.Emit(notify.KindStaff, fmt.Sprintf("Waiter '%s' was added to the system.", waiter.Name))
	return waiter, nil
}

func (s *StaffService) ListWaiters(ctx context.Context) ([]models.Waiter, error) {
	var waiters []models.Waiter
	if err := s.store.db.WithContext(ctx).Order("name asc").Find(&waiters).Error; err != nil {
		return nil, fmt.Errorf("failed to list waiters: %w", err)
	}
	return waiters, nil
}

func (s *StaffService) GetWaiter(ctx context.Context, id uint) (*models.Waiter, error) {
	return findWaiter(s.store.db.WithContext(ctx).Where("id = ?", id), id)
}

// GetWaiterByTelegramID finds the waiter behind an incoming chat message.
func (s *StaffService) GetWaiterByTelegramID(ctx context.Context, telegramID string) (*models.Waiter, error) {
	return findWaiter(s.store.db.WithContext(ctx).Where("telegram_id = ?", telegramID), telegramID)
}

func findWaiter(query *gorm.DB, key interface{}) (*models.Waiter, error) {
	var waiter models.Waiter
	if err := query.First(&waiter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "waiter", ID: key}
		}
		return nil, fmt.Errorf("failed to find waiter: %w", err)
	}
	return &waiter, nil
}

func (s *StaffService) UpdateWaiter(ctx context.Context, id uint, patch WaiterPatch) (*models.Waiter, error) {
	waiter, err := s.GetWaiter(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, &ValidationError{Field: "name", Message: "must not be blank"}
		}
		waiter.Name = name
	}
	if patch.TelegramID != nil {
		waiter.TelegramID = normalizeChatID(patch.TelegramID)
	}
	if patch.Status != nil {
		if err := validateWaiterStatus(*patch.Status); err != nil {
			return nil, err
		}
		waiter.Status = *patch.Status
	}

	if err := s.store.db.WithContext(ctx).Save(waiter).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateWaiter(waiter.TelegramID)
		}
		return nil, fmt.Errorf("failed to update waiter: %w", err)
	}

	s.store.notifier.Emit(notify.KindStaff, fmt.Sprintf("Details of waiter '%s' were updated.", waiter.Name))
	return waiter, nil
}

// DeleteWaiter removes a waiter together with the conversation.
func (s *StaffService) DeleteWaiter(ctx context.Context, id uint) error {
	waiter, err := s.GetWaiter(ctx, id)
	if err != nil {
		return err
	}

	err = s.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("waiter_id = ?", waiter.ID).Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		if err := tx.Delete(waiter).Error; err != nil {
			return fmt.Errorf("failed to delete waiter: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.store.notifier.Emit(notify.KindStaff, fmt.Sprintf("Waiter '%s' was removed from the system.", waiter.Name))
	return nil
}

// SendMessage stores a message to a waiter, sends it to their private chat
// and posts a copy to the staff group.
func (s *StaffService) SendMessage(ctx context.Context, waiterID uint, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Field: "text", Message: "must not be blank"}
	}
	waiter, err := s.GetWaiter(ctx, waiterID)
	if err != nil {
		return nil, err
	}
	if waiter.TelegramID == nil {
		return nil, &ValidationError{Field: "telegram_id", Message: fmt.Sprintf("waiter '%s' has no chat id", waiter.Name)}
	}

	message, err := s.saveMessage(ctx, waiter.ID, text, models.MessageSent)
	if err != nil {
		return nil, err
	}

	s.store.notifier.Direct(*waiter.TelegramID, text)
	s.store.notifier.Emit(notify.KindStaff, fmt.Sprintf("(Admin to %s): %s", waiter.Name, text))
	return message, nil
}

// RecordMessage stores a message that arrived through another channel,
// usually a waiter's reply.
func (s *StaffService) RecordMessage(ctx context.Context, waiterID uint, text, direction string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Field: "text", Message: "must not be blank"}
	}
	if direction == "" {
		direction = models.MessageReceived
	}
	if direction != models.MessageSent && direction != models.MessageReceived {
		return nil, &ValidationError{Field: "direction", Message: fmt.Sprintf("unknown direction %q", direction)}
	}
	if _, err := s.GetWaiter(ctx, waiterID); err != nil {
		return nil, err
	}
	return s.saveMessage(ctx, waiterID, text, direction)
}

// Conversation lists the messages exchanged with a waiter, oldest first.
func (s *StaffService) Conversation(ctx context.Context, waiterID uint) ([]models.Message, error) {
	if _, err := s.GetWaiter(ctx, waiterID); err != nil {
		return nil, err
	}
	var messages []models.Message
	err := s.store.db.WithContext(ctx).
		Where("waiter_id = ?", waiterID).
		Order("timestamp asc").
		Order("id asc").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return messages, nil
}

func (s *StaffService) saveMessage(ctx context.Context, waiterID uint, text, direction string) (*models.Message, error) {
	message := &models.Message{
		Text:      text,
		Direction: direction,
		WaiterID:  waiterID,
		Timestamp: s.store.now(),
	}
	if err := s.store.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	return message, nil
}

func validateWaiterStatus(status string) error {
	if status != models.WaiterActive && status != models.WaiterInactive {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown waiter status %q", status)}
	}
	return nil
}

func normalizeChatID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func duplicateWaiter(telegramID *string) error {
	id := ""
	if telegramID != nil {
		id = *telegramID
	}
	return &ConflictError{
		Reason:  ReasonDuplicateWaiter,
		Message: fmt.Sprintf("telegram id %s is already linked to another waiter", id),
	}
}
