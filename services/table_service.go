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

// TableStats counts tables per status.
type TableStats struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
	Occupied  int64 `json:"occupied"`
	Dirty     int64 `json:"dirty"`
}

// TableService is the table registry.
type TableService struct {
	store *Store
}

func NewTableService(store *Store) *TableService {
	return &TableService{store: store}
}

// Create registers a new available table. Table numbers are unique.
func (s *TableService) Create(ctx context.Context, number, capacity int) (*models.Table, error) {
	if number <= 0 {
		return nil, &ValidationError{Field: "number", Message: "must be a positive integer"}
	}
	if capacity <= 0 {
		return nil, &ValidationError{Field: "capacity", Message: "must be a positive integer"}
	}

	s.store.mu.RLock()
	table, err := s.create(ctx, number, capacity)
	s.store.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	s.store.notifier.Emit(notify.KindTableCreated,
		fmt.Sprintf("Table %d was created with capacity for %d.", table.Number, table.Capacity))
	return table, nil
}

func (s *TableService) create(ctx context.Context, number, capacity int) (*models.Table, error) {
	db := s.store.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Table{}).Where("number = ?", number).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check table number: %w", err)
	}
	if count > 0 {
		return nil, duplicateTable(number)
	}

	table := &models.Table{
		Number:   number,
		Capacity: capacity,
		Status:   models.TableAvailable,
	}
	if err := db.Create(table).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateTable(number)
		}
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return table, nil
}

func duplicateTable(number int) error {
	return &ConflictError{
		Reason:  ReasonDuplicateTable,
		Message: fmt.Sprintf("table number %d already exists", number),
	}
}

// List returns every table ordered by number.
func (s *TableService) List(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := s.store.db.WithContext(ctx).Order("number asc").Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (s *TableService) ListByStatus(ctx context.Context, status string) ([]models.Table, error) {
	if !models.ValidTableStatus(status) {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown table status %q", status)}
	}
	var tables []models.Table
	if err := s.store.db.WithContext(ctx).Where("status = ?", status).Order("number asc").Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (s *TableService) Get(ctx context.Context, id uint) (*models.Table, error) {
	return findTable(s.store.db.WithContext(ctx), id)
}

func findTable(db *gorm.DB, id uint) (*models.Table, error) {
	var table models.Table
	if err := db.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "table", ID: id}
		}
		return nil, fmt.Errorf("failed to find table: %w", err)
	}
	return &table, nil
}

// SetStatus is the staff override for a table's state. party names the
// occupant when status is occupied; it may be nil to keep the current one.
func (s *TableService) SetStatus(ctx context.Context, id uint, status string, party *string) (*models.Table, error) {
	if !models.ValidTableStatus(status) {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown table status %q", status)}
	}

	s.store.mu.RLock()
	table, previousParty, err := s.setStatus(ctx, id, status, party)
	s.store.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	who := ""
	if previousParty != nil {
		who = fmt.Sprintf(" (party '%s')", *previousParty)
	}
	s.store.notifier.Emit(notify.KindStatusChanged,
		fmt.Sprintf("Table %d%s had its status changed to '%s'.", table.Number, who, table.Status))
	return table, nil
}

func (s *TableService) setStatus(ctx context.Context, id uint, status string, party *string) (*models.Table, *string, error) {
	tx := s.store.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	table, err := findTable(tx, id)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	previousParty := table.CurrentParty

	if err := applyTableStatus(table, status, party); err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	if err := tx.Save(table).Error; err != nil {
		tx.Rollback()
		return nil, nil, fmt.Errorf("failed to update table status: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return table, previousParty, nil
}

// applyTableStatus is the only place a table's status changes. It keeps the
// party name present exactly when the table is occupied.
func applyTableStatus(table *models.Table, status string, party *string) error {
	switch status {
	case models.TableAvailable, models.TableDirty:
		table.CurrentParty = nil
	case models.TableOccupied:
		if party != nil {
			name := strings.TrimSpace(*party)
			if name == "" {
				return &ValidationError{Field: "current_party", Message: "must not be blank"}
			}
			table.CurrentParty = &name
		}
		if table.CurrentParty == nil {
			return &ValidationError{Field: "current_party", Message: "an occupied table needs a party name"}
		}
	default:
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown table status %q", status)}
	}
	table.Status = status
	return nil
}

// Delete removes a table.
func (s *TableService) Delete(ctx context.Context, id uint) error {
	s.store.mu.RLock()
	table, err := s.delete(ctx, id)
	s.store.mu.RUnlock()
	if err != nil {
		return err
	}

	s.store.notifier.Emit(notify.KindTableRemoved,
		fmt.Sprintf("Table %d was removed from the system.", table.Number))
	return nil
}

func (s *TableService) delete(ctx context.Context, id uint) (*models.Table, error) {
	db := s.store.db.WithContext(ctx)
	table, err := findTable(db, id)
	if err != nil {
		return nil, err
	}
	if err := db.Delete(table).Error; err != nil {
		return nil, fmt.Errorf("failed to delete table: %w", err)
	}
	return table, nil
}

// Stats counts tables per status.
func (s *TableService) Stats(ctx context.Context) (*TableStats, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.store.db.WithContext(ctx).
		Model(&models.Table{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count tables: %w", err)
	}

	stats := &TableStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.TableAvailable:
			stats.Available = row.Count
		case models.TableOccupied:
			stats.Occupied = row.Count
		case models.TableDirty:
			stats.Dirty = row.Count
		}
	}
	return stats, nil
}
