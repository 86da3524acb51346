package models

import "time"

const (
	WaiterActive   = "active"
	WaiterInactive = "inactive"
)

type Waiter struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null;index" json:"name"`
	TelegramID *string   `gorm:"type:varchar(64);uniqueIndex" json:"telegram_id,omitempty"`
	Status     string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Messages   []Message `gorm:"foreignKey:WaiterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
