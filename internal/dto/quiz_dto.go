package dto

import "time"

type QuizCreateDTO struct {
	Title string `json:"title" binding:"required"`
}

// QuizUpdateDTO renames a quiz; aggregate content changes go through the
// question endpoints.
type QuizUpdateDTO struct {
	Title string `json:"title" binding:"required"`
}

type ChoiceCreateDTO struct {
	ChoiceText string `json:"choice_text" binding:"required"`
	IsCorrect  bool   `json:"is_correct"`
}

// QuestionCreateDTO carries the whole question: updates replace every choice,
// they never merge.
type QuestionCreateDTO struct {
	QuestionText string            `json:"question_text" binding:"required"`
	AnswerType   string            `json:"answer_type" binding:"omitempty,oneof=options text"`
	Choices      []ChoiceCreateDTO `json:"choices" binding:"omitempty,dive"`
}

type ChoiceResponseDTO struct {
	ID         uint   `json:"id"`
	QuestionID uint   `json:"question_id"`
	ChoiceText string `json:"choice_text"`
	IsCorrect  bool   `json:"is_correct"`
}

type QuestionResponseDTO struct {
	ID           uint                `json:"id"`
	QuizID       uint                `json:"quiz_id"`
	QuestionText string              `json:"question_text"`
	AnswerType   string              `json:"answer_type"`
	Choices      []ChoiceResponseDTO `json:"choices"`
}

type QuizResponseDTO struct {
	ID        uint                  `json:"id"`
	Title     string                `json:"title"`
	UserID    uint                  `json:"user_id"`
	Questions []QuestionResponseDTO `json:"questions"`
	CreatedAt time.Time             `json:"created_at"`
}

// QuizSummaryDTO is used for listing a user's own quizzes.
type QuizSummaryDTO struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}
