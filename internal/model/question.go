package model

import "time"

const (
	AnswerTypeOptions = "options"
	AnswerTypeText    = "text"
)

// Questions are returned in insertion order; there is no position column.
type Question struct {
	ID           uint     `gorm:"primarykey" json:"id"`
	QuizID       uint     `json:"quiz_id" gorm:"not null;index"`
	QuestionText string   `json:"question_text" gorm:"type:text;not null"`
	AnswerType   string   `json:"answer_type" gorm:"not null;default:'options'"` // "options" or "text"
	Choices      []Choice `json:"choices,omitempty" gorm:"foreignKey:QuestionID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
