package repository

import (
	"github.com/quizshare/api/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindByID(id uint) (*model.Question, error)
	FindByIDWithChoices(id uint) (*model.Question, error)
	// CreateWithChoices appends a question together with its choices.
	CreateWithChoices(question *model.Question) error
	// ReplaceWithChoices is a full replace: every existing choice is deleted
	// and the supplied list inserted, along with the new text/type. Omitted
	// choices are gone for good.
	ReplaceWithChoices(question *model.Question, choices []model.Choice) error
	DeleteWithChoices(id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByIDWithChoices(id uint) (*model.Question, error) {
	var question model.Question
	err := r.db.
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.id ASC")
		}).
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) CreateWithChoices(question *model.Question) error {
	// GORM creates the associated choices in the same transaction.
	return r.db.Create(question).Error
}

func (r *questionRepository) ReplaceWithChoices(question *model.Question, choices []model.Choice) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&model.Choice{}).Error; err != nil {
			return err
		}
		if err := tx.Model(question).Updates(map[string]interface{}{
			"question_text": question.QuestionText,
			"answer_type":   question.AnswerType,
		}).Error; err != nil {
			return err
		}
		for i := range choices {
			choices[i].ID = 0
			choices[i].QuestionID = question.ID
		}
		if len(choices) > 0 {
			if err := tx.Create(&choices).Error; err != nil {
				return err
			}
		}
		question.Choices = choices
		return nil
	})
}

func (r *questionRepository) DeleteWithChoices(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.Choice{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, id).Error
	})
}
