package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mesaja/seating/metrics"
	"github.com/mesaja/seating/models"
	"github.com/mesaja/seating/notify"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// QueueEntryPatch lists the fields a staff member may change on a queue
// entry. Nil fields are left untouched.
type QueueEntryPatch struct {
	PartyName      *string `json:"party_name"`
	PartySize      *int    `json:"party_size"`
	Status         *string `json:"status"`
	AssignedTables []int   `json:"assigned_tables"`
}

// QueueService is the waiting queue ledger.
type QueueService struct {
	store *Store
}

func NewQueueService(store *Store) *QueueService {
	return &QueueService{store: store}
}

// Enqueue adds a party to the end of the waiting queue.
func (s *QueueService) Enqueue(ctx context.Context, name string, size int) (*models.QueueEntry, error) {
	return s.enqueue(ctx, name, size, nil)
}

// EnqueueWithChat is Enqueue for parties that joined through the chat
// channel. They get a private message once seated.
func (s *QueueService) EnqueueWithChat(ctx context.Context, name string, size int, chatID string) (*models.QueueEntry, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return s.enqueue(ctx, name, size, nil)
	}
	return s.enqueue(ctx, name, size, &chatID)
}

func (s *QueueService) enqueue(ctx context.Context, name string, size int, chatID *string) (*models.QueueEntry, error) {
	name = strings.TrimSpace(name)
	if err := validateParty(name, size); err != nil {
		return nil, err
	}

	entry := &models.QueueEntry{
		PartyName: name,
		PartySize: size,
		Status:    models.QueueWaiting,
		ChatID:    chatID,
	}

	s.store.mu.RLock()
	entry.ArrivalTime = s.store.now()
	err := s.store.db.WithContext(ctx).Create(entry).Error
	s.store.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to add party to queue: %w", err)
	}

	metrics.PartiesJoined.Inc()
	s.store.notifier.Emit(notify.KindPartyJoined,
		fmt.Sprintf("Party '%s' (group of %d) joined the queue.", entry.PartyName, entry.PartySize))
	return entry, nil
}

func validateParty(name string, size int) error {
	if name == "" {
		return &ValidationError{Field: "party_name", Message: "must not be blank"}
	}
	if size <= 0 {
		return &ValidationError{Field: "party_size", Message: "must be at least 1"}
	}
	if size > models.MaxPartySize {
		return &ValidationError{
			Field:   "party_size",
			Message: fmt.Sprintf("parties larger than %d must book directly with the restaurant", models.MaxPartySize),
		}
	}
	return nil
}

// ListWaiting returns waiting entries in arrival order. Ties on arrival time
// fall back to insertion order.
func (s *QueueService) ListWaiting(ctx context.Context) ([]models.QueueEntry, error) {
	var entries []models.QueueEntry
	err := waitingQueue(s.store.db.WithContext(ctx)).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	return entries, nil
}

func waitingQueue(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", models.QueueWaiting).Order("arrival_time asc").Order("id asc")
}

// History returns the most recent entries of any status, newest first.
func (s *QueueService) History(ctx context.Context, limit int) ([]models.QueueEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	var entries []models.QueueEntry
	err := s.store.db.WithContext(ctx).
		Order("arrival_time desc").
		Order("id desc").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load queue history: %w", err)
	}
	return entries, nil
}

func (s *QueueService) Get(ctx context.Context, id uint) (*models.QueueEntry, error) {
	return findEntry(s.store.db.WithContext(ctx), id)
}

func findEntry(db *gorm.DB, id uint) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	if err := db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "queue entry", ID: id}
		}
		return nil, fmt.Errorf("failed to find queue entry: %w", err)
	}
	return &entry, nil
}

// Update applies patch to the entry field by field. A status change goes
// through the queue state machine.
func (s *QueueService) Update(ctx context.Context, id uint, patch QueueEntryPatch) (*models.QueueEntry, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	s.store.mu.RLock()
	entry, changed, err := s.update(ctx, id, patch)
	s.store.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	if changed {
		s.store.notifier.Emit(notify.KindStatusChanged,
			fmt.Sprintf("Status of party '%s' changed to '%s'.", entry.PartyName, entry.Status))
	}
	return entry, nil
}

// Cancel withdraws a waiting party.
func (s *QueueService) Cancel(ctx context.Context, id uint) (*models.QueueEntry, error) {
	status := models.QueueCancelled
	return s.Update(ctx, id, QueueEntryPatch{Status: &status})
}

func validatePatch(patch QueueEntryPatch) error {
	if patch.PartyName != nil && strings.TrimSpace(*patch.PartyName) == "" {
		return &ValidationError{Field: "party_name", Message: "must not be blank"}
	}
	if patch.PartySize != nil {
		if err := validateParty("-", *patch.PartySize); err != nil {
			return err
		}
	}
	if patch.Status != nil && !models.ValidQueueStatus(*patch.Status) {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown queue status %q", *patch.Status)}
	}
	for _, n := range patch.AssignedTables {
		if n <= 0 {
			return &ValidationError{Field: "assigned_tables", Message: "table numbers must be positive"}
		}
	}
	return nil
}

func (s *QueueService) update(ctx context.Context, id uint, patch QueueEntryPatch) (*models.QueueEntry, bool, error) {
	tx := s.store.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	entry, err := findEntry(tx, id)
	if err != nil {
		tx.Rollback()
		return nil, false, err
	}

	if patch.PartyName != nil {
		entry.PartyName = strings.TrimSpace(*patch.PartyName)
	}
	if patch.PartySize != nil {
		entry.PartySize = *patch.PartySize
	}

	changed := false
	switch {
	case patch.Status != nil && *patch.Status != entry.Status:
		if err := transitionEntry(entry, *patch.Status, patch.AssignedTables, s.store.now()); err != nil {
			tx.Rollback()
			return nil, false, err
		}
		changed = true
	case len(patch.AssignedTables) > 0:
		tx.Rollback()
		return nil, false, &ValidationError{
			Field:   "assigned_tables",
			Message: "tables can only be assigned while seating a waiting party",
		}
	}

	if err := tx.Save(entry).Error; err != nil {
		tx.Rollback()
		return nil, false, fmt.Errorf("failed to update queue entry: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if changed && entry.Status == models.QueueServed {
		if wait, ok := entry.Wait(); ok {
			metrics.WaitDuration.Observe(wait.Seconds())
		}
	}
	return entry, changed, nil
}

// transitionEntry is the queue state machine. Only waiting entries move, to
// served or cancelled. Entering served stamps the served time and records
// the tables, which must be given.
func transitionEntry(entry *models.QueueEntry, status string, tables []int, now time.Time) error {
	if entry.Terminal() {
		return &ConflictError{
			Reason:  ReasonInvalidTransition,
			Message: fmt.Sprintf("queue entry %d is already %s", entry.ID, entry.Status),
		}
	}

	switch status {
	case models.QueueServed:
		if len(tables) == 0 {
			return &ValidationError{Field: "assigned_tables", Message: "a served party needs at least one table"}
		}
		entry.Status = models.QueueServed
		entry.ServedTime = &now
		entry.AssignedTables = models.JoinTableNumbers(tables)
	case models.QueueCancelled:
		if len(tables) > 0 {
			return &ValidationError{Field: "assigned_tables", Message: "a cancelled party has no tables"}
		}
		entry.Status = models.QueueCancelled
	default:
		return &ConflictError{
			Reason:  ReasonInvalidTransition,
			Message: fmt.Sprintf("queue entry %d cannot move from %s to %s", entry.ID, entry.Status, status),
		}
	}
	return nil
}
