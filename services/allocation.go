package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/mesaja/seating/metrics"
	"github.com/mesaja/seating/models"
	"github.com/mesaja/seating/notify"
)

// Parties above this size may be split across two tables.
const combineAbove = 4

// Seating modes, used as metric labels.
const (
	SeatSingle   = "single"
	SeatCombined = "combined"
	SeatManual   = "manual"
)

// Seating is the outcome of a successful allocation.
type Seating struct {
	Entry  models.QueueEntry `json:"entry"`
	Tables []models.Table    `json:"tables"`
	Mode   string            `json:"mode"`
}

// SelectTables picks tables for a party of size from the available ones.
//
// Tables are scanned by capacity, largest first (ties by ID), and the first
// one that holds the party wins. When none does and the party is larger than
// four, the first pair in that same order whose capacities add up is used.
// It returns nil when nothing fits.
func SelectTables(size int, available []models.Table) []models.Table {
	sorted := append([]models.Table(nil), available...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Capacity != sorted[j].Capacity {
			return sorted[i].Capacity > sorted[j].Capacity
		}
		return sorted[i].ID < sorted[j].ID
	})

	for _, table := range sorted {
		if table.Capacity >= size {
			return []models.Table{table}
		}
	}

	if size <= combineAbove || len(sorted) < 2 {
		return nil
	}
	for i := 0; i < len(sorted)-1; i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[i].Capacity+sorted[j].Capacity >= size {
				return []models.Table{sorted[i], sorted[j]}
			}
		}
	}
	return nil
}

// AllocationService seats waiting parties.
type AllocationService struct {
	store *Store
}

func NewAllocationService(store *Store) *AllocationService {
	return &AllocationService{store: store}
}

// ServeNext seats the party at the head of the queue on the best available
// table or pair of tables. It fails with a ConflictError when the queue is
// empty or nothing fits; in both cases nothing is changed.
func (s *AllocationService) ServeNext(ctx context.Context) (*Seating, error) {
	s.store.mu.Lock()
	seating, err := s.serveNext(ctx)
	s.store.mu.Unlock()
	if err != nil {
		recordFailure(err)
		return nil, err
	}

	s.announce(seating)
	return seating, nil
}

func (s *AllocationService) serveNext(ctx context.Context) (*Seating, error) {
	tx := s.store.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	entry, err := queueHead(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	var available []models.Table
	if err := tx.Where("status = ?", models.TableAvailable).Find(&available).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to load available tables: %w", err)
	}

	selected := SelectTables(entry.PartySize, available)
	if selected == nil {
		tx.Rollback()
		return nil, errNoTableAvailable(entry.PartySize)
	}

	mode := SeatSingle
	if len(selected) > 1 {
		mode = SeatCombined
	}
	seating, err := s.seat(tx, entry, selected, mode)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return seating, nil
}

// AssignToTable seats the party at the head of the queue on a table chosen
// by staff. The table's capacity is not checked, but it must not already be
// occupied.
func (s *AllocationService) AssignToTable(ctx context.Context, tableID uint) (*Seating, error) {
	s.store.mu.Lock()
	seating, err := s.assignToTable(ctx, tableID)
	s.store.mu.Unlock()
	if err != nil {
		recordFailure(err)
		return nil, err
	}

	s.announce(seating)
	return seating, nil
}

func (s *AllocationService) assignToTable(ctx context.Context, tableID uint) (*Seating, error) {
	tx := s.store.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	table, err := findTable(tx, tableID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	entry, err := queueHead(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if table.Status == models.TableOccupied {
		tx.Rollback()
		return nil, &ConflictError{
			Reason:  ReasonTableOccupied,
			Message: fmt.Sprintf("table %d is already occupied", table.Number),
		}
	}

	seating, err := s.seat(tx, entry, []models.Table{*table}, SeatManual)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return seating, nil
}

func queueHead(tx *gorm.DB) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	if err := waitingQueue(tx).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errQueueEmpty()
		}
		return nil, fmt.Errorf("failed to read queue head: %w", err)
	}
	return &entry, nil
}

// seat writes one allocation: every table occupied by the party and the
// entry moved to served with the table numbers recorded.
func (s *AllocationService) seat(tx *gorm.DB, entry *models.QueueEntry, tables []models.Table, mode string) (*Seating, error) {
	numbers := make([]int, 0, len(tables))
	for i := range tables {
		party := entry.PartyName
		if err := applyTableStatus(&tables[i], models.TableOccupied, &party); err != nil {
			return nil, err
		}
		if err := tx.Save(&tables[i]).Error; err != nil {
			return nil, fmt.Errorf("failed to occupy table %d: %w", tables[i].Number, err)
		}
		numbers = append(numbers, tables[i].Number)
	}

	if err := transitionEntry(entry, models.QueueServed, numbers, s.store.now()); err != nil {
		return nil, err
	}
	if err := tx.Save(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to mark party as served: %w", err)
	}

	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	return &Seating{Entry: *entry, Tables: tables, Mode: mode}, nil
}

func (s *AllocationService) announce(seating *Seating) {
	entry := seating.Entry
	metrics.PartiesSeated.WithLabelValues(seating.Mode).Inc()
	if wait, ok := entry.Wait(); ok {
		metrics.WaitDuration.Observe(wait.Seconds())
	}

	s.store.notifier.Emit(notify.KindPartySeated,
		fmt.Sprintf("Party '%s' seated at table(s) %s.", entry.PartyName, entry.AssignedTables))
	if entry.ChatID != nil {
		s.store.notifier.Direct(*entry.ChatID,
			fmt.Sprintf("Your table is ready, %s! Please come to table(s) %s.", entry.PartyName, entry.AssignedTables))
	}
}

func recordFailure(err error) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		metrics.AllocationFailures.WithLabelValues(conflict.Reason).Inc()
		return
	}
	metrics.AllocationFailures.WithLabelValues("internal").Inc()
}
