package models

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Status antrian
const (
	QueueWaiting   = "waiting"
	QueueServed    = "served"
	QueueCancelled = "cancelled"
)

// MaxPartySize is the largest party accepted at intake. Bigger groups
// have to book directly with the restaurant.
const MaxPartySize = 8

type QueueEntry struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	PartyName      string     `gorm:"type:varchar(255);not null" json:"party_name"`
	PartySize      int        `gorm:"not null" json:"party_size"`
	Status         string     `gorm:"type:varchar(20);not null;default:'waiting';index" json:"status"`
	ArrivalTime    time.Time  `gorm:"not null;index" json:"arrival_time"`
	ServedTime     *time.Time `json:"served_time,omitempty"`
	AssignedTables string     `gorm:"type:varchar(255)" json:"assigned_tables,omitempty"`
	ChatID         *string    `gorm:"type:varchar(64)" json:"chat_id,omitempty"`
}

// ValidQueueStatus reports whether s is one of the queue entry states.
func ValidQueueStatus(s string) bool {
	switch s {
	case QueueWaiting, QueueServed, QueueCancelled:
		return true
	}
	return false
}

// Terminal reports whether the entry can no longer change status.
func (q *QueueEntry) Terminal() bool {
	return q.Status == QueueServed || q.Status == QueueCancelled
}

// Wait returns how long the party waited before being seated.
func (q *QueueEntry) Wait() (time.Duration, bool) {
	if q.Status != QueueServed || q.ServedTime == nil {
		return 0, false
	}
	return q.ServedTime.Sub(q.ArrivalTime), true
}

// TableNumbers parses AssignedTables back into numbers.
func (q *QueueEntry) TableNumbers() []int {
	if q.AssignedTables == "" {
		return nil
	}
	var numbers []int
	for _, part := range strings.Split(q.AssignedTables, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

// JoinTableNumbers renders table numbers in ascending order, e.g. "301, 302".
func JoinTableNumbers(numbers []int) string {
	sorted := append([]int(nil), numbers...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
