package models

import "time"

// Arah pesan: admin -> waiter (sent) atau waiter -> admin (received)
const (
	MessageSent     = "sent"
	MessageReceived = "received"
)

type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Direction string    `gorm:"type:varchar(10);not null" json:"direction"`
	WaiterID  uint      `gorm:"not null;index" json:"waiter_id"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}
