package repository

import (
	"github.com/quizshare/api/internal/model"
	"gorm.io/gorm"
)

// QuizWithCount pairs a quiz row with its live question count for listings.
type QuizWithCount struct {
	model.Quiz
	QuestionCount int
}

// QuizRepository loads and persists the Quiz aggregate (quiz + ordered
// questions + choices) as one unit.
type QuizRepository interface {
	Create(quiz *model.Quiz) error
	Save(quiz *model.Quiz) error

	// FindByIDAndOwner filters by id AND owner, so a quiz owned by someone
	// else is indistinguishable from a missing one.
	FindByIDAndOwner(id, ownerID uint) (*model.Quiz, error)
	// FindByID is the id-only lookup used when ownership is checked
	// separately (question mutations resolved through the parent quiz).
	FindByID(id uint) (*model.Quiz, error)
	FindOwnedWithQuestionCount(ownerID uint) ([]QuizWithCount, error)

	// Share-code lookups only ever match public quizzes; callers pass the
	// canonical upper-case form.
	FindByShareCode(code string) (*model.Quiz, error)
	FindByShareCodeWithQuestions(code string) (*model.Quiz, error)
	FindSharedByOwner(ownerID uint) ([]QuizWithCount, error)
	CodeExists(code string) (bool, error)
	SetShareCode(quizID uint, code *string, isPublic bool) error

	CountQuestions(quizID uint) (int64, error)
	DeleteCascade(quizID uint) error
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(quiz *model.Quiz) error {
	return r.db.Create(quiz).Error
}

func (r *quizRepository) Save(quiz *model.Quiz) error {
	return r.db.Save(quiz).Error
}

// preloadAggregate loads questions and choices in insertion order.
func preloadAggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.id ASC")
		})
}

func (r *quizRepository) FindByIDAndOwner(id, ownerID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := preloadAggregate(r.db).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindOwnedWithQuestionCount(ownerID uint) ([]QuizWithCount, error) {
	var results []QuizWithCount
	err := r.db.Model(&model.Quiz{}).
		Select("quizzes.*, (SELECT COUNT(*) FROM questions WHERE questions.quiz_id = quizzes.id) as question_count").
		Where("quizzes.user_id = ?", ownerID).
		Order("quizzes.created_at DESC").
		Scan(&results).Error
	return results, err
}

func (r *quizRepository) FindByShareCode(code string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.
		Where("share_code = ? AND is_public = ?", code, true).
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByShareCodeWithQuestions(code string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := preloadAggregate(r.db).
		Where("share_code = ? AND is_public = ?", code, true).
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindSharedByOwner(ownerID uint) ([]QuizWithCount, error) {
	var results []QuizWithCount
	err := r.db.Model(&model.Quiz{}).
		Select("quizzes.*, (SELECT COUNT(*) FROM questions WHERE questions.quiz_id = quizzes.id) as question_count").
		Where("quizzes.user_id = ? AND quizzes.share_code IS NOT NULL AND quizzes.is_public = ?", ownerID, true).
		Order("quizzes.created_at DESC").
		Scan(&results).Error
	return results, err
}

// CodeExists checks the code against every stored one, public or not.
func (r *quizRepository) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Quiz{}).Where("share_code = ?", code).Count(&count).Error
	return count > 0, err
}

// SetShareCode writes both columns together; they are never updated apart.
// A nil code clears it (revocation). The unique index on share_code is the
// final arbiter against concurrent issuance: a duplicate commit surfaces as
// gorm.ErrDuplicatedKey.
func (r *quizRepository) SetShareCode(quizID uint, code *string, isPublic bool) error {
	return r.db.Model(&model.Quiz{}).
		Where("id = ?", quizID).
		Updates(map[string]interface{}{"share_code": code, "is_public": isPublic}).Error
}

func (r *quizRepository) CountQuestions(quizID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

// DeleteCascade removes choices, then questions, then the quiz, in one
// transaction. Ordering keeps referential integrity without relying on
// database-side cascades. History rows are untouched here; their quiz_id is
// nulled by the ON DELETE SET NULL constraint.
func (r *quizRepository) DeleteCascade(quizID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		questionIDs := tx.Model(&model.Question{}).Select("id").Where("quiz_id = ?", quizID)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&model.Choice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, quizID).Error
	})
}
