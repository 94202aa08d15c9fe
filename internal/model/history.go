package model

import "time"

// HistoryEntry is an append-only record of a completed quiz run. QuizID is
// nulled by the database (ON DELETE SET NULL) when the source quiz is deleted;
// QuizTitle and OwnerName are denormalized at write time so the entry stays
// meaningful afterwards.
type HistoryEntry struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `json:"user_id" gorm:"not null;index"`

	QuizID *uint `json:"quiz_id" gorm:"index"`
	Quiz   *Quiz `json:"-" gorm:"foreignKey:QuizID;constraint:OnDelete:SET NULL"`

	QuizTitle      string  `json:"quiz_title" gorm:"not null"`
	Score          int     `json:"score"` // percentage 0-100, caller-computed
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
	TimeSpent      int     `json:"time_spent"` // seconds
	IsExternal     bool    `json:"is_external" gorm:"not null;default:false"`
	OwnerName      *string `json:"owner_name,omitempty"`

	CompletedAt time.Time `json:"completed_at" gorm:"autoCreateTime;index"`
}

func (HistoryEntry) TableName() string { return "quiz_history" }
