package dto

import "time"

// HistoryCreateDTO values are caller-computed and recorded as-is; the recorder
// does not cross-check score against correct/total.
type HistoryCreateDTO struct {
	QuizID         *uint   `json:"quiz_id"`
	QuizTitle      string  `json:"quiz_title" binding:"required"`
	Score          int     `json:"score" binding:"min=0,max=100"`
	CorrectAnswers int     `json:"correct_answers" binding:"min=0"`
	TotalQuestions int     `json:"total_questions" binding:"min=0"`
	TimeSpent      int     `json:"time_spent" binding:"min=0"`
	IsExternal     bool    `json:"is_external"`
	OwnerName      *string `json:"owner_name"`
}

type HistoryResponseDTO struct {
	ID             uint      `json:"id"`
	QuizID         *uint     `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	TimeSpent      int       `json:"time_spent"`
	IsExternal     bool      `json:"is_external"`
	OwnerName      *string   `json:"owner_name"`
	CompletedAt    time.Time `json:"completed_at"`
}

type HistoryStatsDTO struct {
	TotalQuizzes    int `json:"total_quizzes"`
	AverageScore    int `json:"average_score"`
	TotalCorrect    int `json:"total_correct"`
	TotalQuestions  int `json:"total_questions"`
	TotalTime       int `json:"total_time"`
	ExternalQuizzes int `json:"external_quizzes"`
}
