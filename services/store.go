package services

import (
	"sync"
	"time"

	"gorm.io/gorm"
)

// Notifier receives the human readable events produced by state changes.
// Implementations must not block.
type Notifier interface {
	Emit(kind, text string)
	EmitMarkdown(kind, plain, markdown string)
	Direct(recipient, text string)
}

type nopNotifier struct{}

func (nopNotifier) Emit(string, string)                 {}
func (nopNotifier) EmitMarkdown(string, string, string) {}
func (nopNotifier) Direct(string, string)               {}

// Store is the state shared by the seating services: the database, the
// writer lock guarding queue and table mutations, and the event sink.
//
// Allocations hold the lock exclusively so that reading the queue head and
// the free tables, deciding, and writing happen as one unit. Single record
// edits hold it shared.
type Store struct {
	db       *gorm.DB
	mu       sync.RWMutex
	notifier Notifier
	now      func() time.Time
}

func NewStore(db *gorm.DB, notifier Notifier) *Store {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Store{
		db:       db,
		notifier: notifier,
		now:      time.Now,
	}
}

// DB returns the underlying connection for read only collaborators.
func (s *Store) DB() *gorm.DB {
	return s.db
}
