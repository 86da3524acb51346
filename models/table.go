package models

import "time"

// Status meja
const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableDirty     = "dirty"
)

type Table struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Number       int       `gorm:"uniqueIndex;not null" json:"number"`
	Capacity     int       `gorm:"not null" json:"capacity"`
	Status       string    `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	CurrentParty *string   `gorm:"type:varchar(255)" json:"current_party,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// ValidTableStatus reports whether s is one of the table states.
func ValidTableStatus(s string) bool {
	switch s {
	case TableAvailable, TableOccupied, TableDirty:
		return true
	}
	return false
}
