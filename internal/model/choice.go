package model

import "time"

type Choice struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	ChoiceText string `json:"choice_text" gorm:"not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
