package models

import "time"

// User is the durable identity record. Created once at registration,
// immutable afterwards.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"not null" json:"username"`
	CreatedAt time.Time `json:"-"`
}
