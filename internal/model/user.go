package model

import "time"

type User struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Email          string    `json:"email" gorm:"not null;uniqueIndex"`
	HashedPassword string    `json:"-" gorm:"not null"`
	Name           string    `json:"name" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
