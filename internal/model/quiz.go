package model

import "time"

type Quiz struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Title  string `json:"title" gorm:"not null;index"`
	UserID uint   `json:"user_id" gorm:"not null;index"`

	// ShareCode and IsPublic are set and cleared together: a quiz is public
	// exactly while it holds a code. Stored codes are always upper-case.
	ShareCode *string `json:"share_code,omitempty" gorm:"size:8;uniqueIndex"`
	IsPublic  bool    `json:"is_public" gorm:"not null;default:false"`

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
