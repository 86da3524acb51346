package models

import "time"

const (
	PromotionActive   = "active"
	PromotionInactive = "inactive"
)

type Promotion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Rules       *string   `gorm:"type:text" json:"rules,omitempty"`
	Status      string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
