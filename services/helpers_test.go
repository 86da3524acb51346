package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mesaja/seating/models"
	"github.com/mesaja/seating/utils"
)

type sentEvent struct {
	Kind      string
	Text      string
	Recipient string
	Markdown  bool
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) Emit(kind, text string) {
	n.record(sentEvent{Kind: kind, Text: text})
}

func (n *recordingNotifier) EmitMarkdown(kind, _, markdown string) {
	n.record(sentEvent{Kind: kind, Text: markdown, Markdown: true})
}

func (n *recordingNotifier) Direct(recipient, text string) {
	n.record(sentEvent{Kind: "direct", Text: text, Recipient: recipient})
}

func (n *recordingNotifier) record(ev sentEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) all() []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentEvent(nil), n.events...)
}

func (n *recordingNotifier) last() sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return sentEvent{}
	}
	return n.events[len(n.events)-1]
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}

// stepClock returns a time one minute later on every call, so entries
// created in sequence have distinct arrival times.
type stepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func newStepClock(start time.Time) *stepClock {
	return &stepClock{next: start, step: time.Minute}
}

func (c *stepClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

var testStart = time.Date(2024, 5, 10, 19, 0, 0, 0, time.Local)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.Silence()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := "file:" + name + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func setupStore(t *testing.T) (*Store, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	store := NewStore(setupTestDB(t), notifier)
	store.now = newStepClock(testStart).now
	return store, notifier
}

func mustTable(t *testing.T, store *Store, number, capacity int) *models.Table {
	t.Helper()
	table, err := NewTableService(store).Create(ctxT(t), number, capacity)
	require.NoError(t, err)
	return table
}

func mustEnqueue(t *testing.T, store *Store, name string, size int) *models.QueueEntry {
	t.Helper()
	entry, err := NewQueueService(store).Enqueue(ctxT(t), name, size)
	require.NoError(t, err)
	return entry
}

func ctxT(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
