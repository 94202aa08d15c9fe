package repository

import (
	"github.com/quizshare/api/internal/model"
	"gorm.io/gorm"
)

// HistoryTotals is the raw aggregate scanned from quiz_history; the service
// derives the rounded average from ScoreSum/TotalQuizzes.
type HistoryTotals struct {
	TotalQuizzes    int
	ScoreSum        int
	TotalCorrect    int
	TotalQuestions  int
	TotalTime       int
	ExternalQuizzes int
}

type HistoryRepository interface {
	Create(entry *model.HistoryEntry) error
	FindByUser(userID uint, limit int) ([]model.HistoryEntry, error)
	TotalsForUser(userID uint) (*HistoryTotals, error)
	// DeleteByIDAndUser removes the entry only when it belongs to the user;
	// reports gorm.ErrRecordNotFound otherwise.
	DeleteByIDAndUser(id, userID uint) error
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(entry *model.HistoryEntry) error {
	return r.db.Create(entry).Error
}

func (r *historyRepository) FindByUser(userID uint, limit int) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	err := r.db.
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *historyRepository) TotalsForUser(userID uint) (*HistoryTotals, error) {
	var totals HistoryTotals
	err := r.db.Model(&model.HistoryEntry{}).
		Select(`COUNT(*) as total_quizzes,
			COALESCE(SUM(score), 0) as score_sum,
			COALESCE(SUM(correct_answers), 0) as total_correct,
			COALESCE(SUM(total_questions), 0) as total_questions,
			COALESCE(SUM(time_spent), 0) as total_time,
			COALESCE(SUM(CASE WHEN is_external THEN 1 ELSE 0 END), 0) as external_quizzes`).
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *historyRepository) DeleteByIDAndUser(id, userID uint) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.HistoryEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
