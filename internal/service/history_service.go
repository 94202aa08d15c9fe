package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/jinzhu/copier"
	"github.com/quizshare/api/internal/apperr"
	"github.com/quizshare/api/internal/dto"
	"github.com/quizshare/api/internal/model"
	"github.com/quizshare/api/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const defaultHistoryLimit = 50

// HistoryService is the append-only record of completed quiz runs. Entries
// are written with whatever score/correct/total the client computed and are
// never revised, only deleted by their owner.
type HistoryService interface {
	Record(userID uint, req dto.HistoryCreateDTO) (*dto.HistoryResponseDTO, error)
	ListForUser(userID uint, limit int) ([]dto.HistoryResponseDTO, error)
	Stats(userID uint) (*dto.HistoryStatsDTO, error)
	DeleteEntry(entryID, userID uint) error
}

type historyService struct {
	historyRepo repository.HistoryRepository
}

func NewHistoryService(historyRepo repository.HistoryRepository) HistoryService {
	return &historyService{historyRepo: historyRepo}
}

func (s *historyService) Record(userID uint, req dto.HistoryCreateDTO) (*dto.HistoryResponseDTO, error) {
	entry := model.HistoryEntry{
		UserID:         userID,
		QuizID:         req.QuizID,
		QuizTitle:      req.QuizTitle,
		Score:          req.Score,
		CorrectAnswers: req.CorrectAnswers,
		TotalQuestions: req.TotalQuestions,
		TimeSpent:      req.TimeSpent,
		IsExternal:     req.IsExternal,
		OwnerName:      req.OwnerName,
	}
	if err := s.historyRepo.Create(&entry); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to record history entry")
		return nil, fmt.Errorf("database error recording history: %w", err)
	}

	var resp dto.HistoryResponseDTO
	copier.Copy(&resp, &entry)
	return &resp, nil
}

func (s *historyService) ListForUser(userID uint, limit int) ([]dto.HistoryResponseDTO, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	entries, err := s.historyRepo.FindByUser(userID, limit)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to list history")
		return nil, fmt.Errorf("error fetching history: %w", err)
	}

	dtos := make([]dto.HistoryResponseDTO, 0, len(entries))
	for _, entry := range entries {
		var d dto.HistoryResponseDTO
		copier.Copy(&d, &entry)
		dtos = append(dtos, d)
	}
	return dtos, nil
}

func (s *historyService) Stats(userID uint) (*dto.HistoryStatsDTO, error) {
	totals, err := s.historyRepo.TotalsForUser(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to aggregate history stats")
		return nil, fmt.Errorf("error computing stats: %w", err)
	}

	stats := dto.HistoryStatsDTO{
		TotalQuizzes:    totals.TotalQuizzes,
		TotalCorrect:    totals.TotalCorrect,
		TotalQuestions:  totals.TotalQuestions,
		TotalTime:       totals.TotalTime,
		ExternalQuizzes: totals.ExternalQuizzes,
	}
	if totals.TotalQuizzes > 0 {
		stats.AverageScore = int(math.Round(float64(totals.ScoreSum) / float64(totals.TotalQuizzes)))
	}
	return &stats, nil
}

func (s *historyService) DeleteEntry(entryID, userID uint) error {
	if err := s.historyRepo.DeleteByIDAndUser(entryID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Someone else's entry looks exactly like a missing one.
			return fmt.Errorf("history entry %d: %w", entryID, apperr.ErrNotFound)
		}
		log.Error().Err(err).Uint("entryID", entryID).Msg("Failed to delete history entry")
		return fmt.Errorf("database error deleting history entry: %w", err)
	}
	return nil
}
