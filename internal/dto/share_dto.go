package dto

import "time"

type ShareCodeDTO struct {
	ShareCode string `json:"share_code"`
	Message   string `json:"message"`
}

// SharedQuizInfoDTO deliberately carries no question content: summaries must
// never leak choice text or correctness to code holders.
type SharedQuizInfoDTO struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	OwnerName     string    `json:"owner_name"`
	QuestionCount int       `json:"question_count"`
	ShareCode     *string   `json:"share_code"`
	CreatedAt     time.Time `json:"created_at"`
}
