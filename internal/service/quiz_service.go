package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/quizshare/api/internal/apperr"
	"github.com/quizshare/api/internal/cache"
	"github.com/quizshare/api/internal/dto"
	"github.com/quizshare/api/internal/model"
	"github.com/quizshare/api/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// QuizService owns every mutation of the quiz aggregate. Loads are filtered by
// owner, so another user's quiz always comes back as not-found; question
// operations resolve ownership through the parent quiz and answer with
// forbidden instead, since the id-only question lookup already revealed
// existence.
type QuizService interface {
	CreateQuiz(userID uint, req dto.QuizCreateDTO) (*dto.QuizResponseDTO, error)
	ListQuizzes(userID uint) ([]dto.QuizSummaryDTO, error)
	GetQuiz(quizID, userID uint) (*dto.QuizResponseDTO, error)
	RenameQuiz(quizID, userID uint, req dto.QuizUpdateDTO) (*dto.QuizResponseDTO, error)
	DeleteQuiz(ctx context.Context, quizID, userID uint) error

	AddQuestion(quizID, userID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	UpdateQuestion(questionID, userID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	DeleteQuestion(questionID, userID uint) error
}

type quizService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	shareCache   cache.ShareCache
}

func NewQuizService(quizRepo repository.QuizRepository, questionRepo repository.QuestionRepository, shareCache cache.ShareCache) QuizService {
	return &quizService{quizRepo: quizRepo, questionRepo: questionRepo, shareCache: shareCache}
}

func (s *quizService) CreateQuiz(userID uint, req dto.QuizCreateDTO) (*dto.QuizResponseDTO, error) {
	quiz := model.Quiz{Title: req.Title, UserID: userID}
	if err := s.quizRepo.Create(&quiz); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to create quiz")
		return nil, fmt.Errorf("database error creating quiz: %w", err)
	}

	resp := quizToDTO(&quiz)
	return resp, nil
}

func (s *quizService) ListQuizzes(userID uint) ([]dto.QuizSummaryDTO, error) {
	quizzes, err := s.quizRepo.FindOwnedWithQuestionCount(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to list quizzes")
		return nil, fmt.Errorf("error fetching quizzes: %w", err)
	}

	dtos := make([]dto.QuizSummaryDTO, 0, len(quizzes))
	for _, q := range quizzes {
		dtos = append(dtos, dto.QuizSummaryDTO{
			ID:            q.Quiz.ID,
			Title:         q.Quiz.Title,
			QuestionCount: q.QuestionCount,
			CreatedAt:     q.Quiz.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *quizService) GetQuiz(quizID, userID uint) (*dto.QuizResponseDTO, error) {
	quiz, err := s.loadOwned(quizID, userID)
	if err != nil {
		return nil, err
	}
	return quizToDTO(quiz), nil
}

func (s *quizService) RenameQuiz(quizID, userID uint, req dto.QuizUpdateDTO) (*dto.QuizResponseDTO, error) {
	quiz, err := s.loadOwned(quizID, userID)
	if err != nil {
		return nil, err
	}

	quiz.Title = req.Title
	if err := s.quizRepo.Save(quiz); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to rename quiz")
		return nil, fmt.Errorf("database error updating quiz: %w", err)
	}
	return quizToDTO(quiz), nil
}

func (s *quizService) DeleteQuiz(ctx context.Context, quizID, userID uint) error {
	quiz, err := s.loadOwned(quizID, userID)
	if err != nil {
		return err
	}

	if err := s.quizRepo.DeleteCascade(quizID); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to delete quiz aggregate")
		return fmt.Errorf("database error deleting quiz: %w", err)
	}

	// The code died with the quiz; drop any cached summary for it.
	if quiz.ShareCode != nil && s.shareCache != nil {
		s.shareCache.Invalidate(ctx, *quiz.ShareCode)
	}

	log.Info().Uint("quizID", quizID).Uint("userID", userID).Msg("Quiz deleted")
	return nil
}

func (s *quizService) AddQuestion(quizID, userID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	if _, err := s.loadOwned(quizID, userID); err != nil {
		return nil, err
	}

	question := model.Question{
		QuizID:       quizID,
		QuestionText: req.QuestionText,
		AnswerType:   answerTypeOrDefault(req.AnswerType),
		Choices:      choicesFromDTO(req.Choices),
	}
	if err := s.questionRepo.CreateWithChoices(&question); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to add question")
		return nil, fmt.Errorf("database error creating question: %w", err)
	}

	return questionToDTO(&question), nil
}

func (s *quizService) UpdateQuestion(questionID, userID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	question, err := s.ownedQuestion(questionID, userID)
	if err != nil {
		return nil, err
	}

	question.QuestionText = req.QuestionText
	question.AnswerType = answerTypeOrDefault(req.AnswerType)
	if err := s.questionRepo.ReplaceWithChoices(question, choicesFromDTO(req.Choices)); err != nil {
		log.Error().Err(err).Uint("questionID", questionID).Msg("Failed to replace question")
		return nil, fmt.Errorf("database error updating question: %w", err)
	}

	return questionToDTO(question), nil
}

func (s *quizService) DeleteQuestion(questionID, userID uint) error {
	if _, err := s.ownedQuestion(questionID, userID); err != nil {
		return err
	}

	if err := s.questionRepo.DeleteWithChoices(questionID); err != nil {
		log.Error().Err(err).Uint("questionID", questionID).Msg("Failed to delete question")
		return fmt.Errorf("database error deleting question: %w", err)
	}
	return nil
}

func (s *quizService) loadOwned(quizID, userID uint) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByIDAndOwner(quizID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz %d: %w", quizID, apperr.ErrNotFound)
		}
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to load quiz")
		return nil, fmt.Errorf("error fetching quiz %d: %w", quizID, err)
	}
	return quiz, nil
}

// ownedQuestion resolves a question and checks that its parent quiz belongs to
// the user. The question lookup is id-only, so a foreign quiz yields forbidden
// rather than not-found.
func (s *quizService) ownedQuestion(questionID, userID uint) (*model.Question, error) {
	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %d: %w", questionID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching question %d: %w", questionID, err)
	}

	quiz, err := s.quizRepo.FindByID(question.QuizID)
	if err != nil {
		return nil, fmt.Errorf("error fetching quiz %d: %w", question.QuizID, err)
	}
	if quiz.UserID != userID {
		return nil, fmt.Errorf("question %d belongs to another user's quiz: %w", questionID, apperr.ErrForbidden)
	}
	return question, nil
}

func answerTypeOrDefault(answerType string) string {
	if answerType == "" {
		return model.AnswerTypeOptions
	}
	return answerType
}

func choicesFromDTO(reqs []dto.ChoiceCreateDTO) []model.Choice {
	choices := make([]model.Choice, 0, len(reqs))
	for _, c := range reqs {
		choices = append(choices, model.Choice{ChoiceText: c.ChoiceText, IsCorrect: c.IsCorrect})
	}
	return choices
}

func questionToDTO(question *model.Question) *dto.QuestionResponseDTO {
	var resp dto.QuestionResponseDTO
	copier.Copy(&resp, question)
	if resp.Choices == nil {
		resp.Choices = []dto.ChoiceResponseDTO{}
	}
	return &resp
}

func quizToDTO(quiz *model.Quiz) *dto.QuizResponseDTO {
	var resp dto.QuizResponseDTO
	copier.Copy(&resp, quiz)
	if resp.Questions == nil {
		resp.Questions = []dto.QuestionResponseDTO{}
	}
	for i := range resp.Questions {
		if resp.Questions[i].Choices == nil {
			resp.Questions[i].Choices = []dto.ChoiceResponseDTO{}
		}
	}
	return &resp
}
