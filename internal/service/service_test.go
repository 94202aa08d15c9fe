package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/quizshare/api/internal/dto"
	"github.com/quizshare/api/internal/model"
	"github.com/quizshare/api/internal/repository"
	"gorm.io/gorm"
)

// newTestDB opens an isolated in-memory database with the same error
// translation and foreign-key behavior the postgres setup relies on.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// A single connection keeps every query on the same in-memory database
	// and makes the PRAGMA stick.
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.Question{},
		&model.Choice{},
		&model.HistoryEntry{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, name string) *model.User {
	t.Helper()
	user := model.User{Email: email, HashedPassword: "x", Name: name}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return &user
}

// stubShareCache is an in-process stand-in for the redis summary cache.
type stubShareCache struct {
	summaries   map[string]*dto.SharedQuizInfoDTO
	invalidated []string
}

func newStubShareCache() *stubShareCache {
	return &stubShareCache{summaries: make(map[string]*dto.SharedQuizInfoDTO)}
}

func (c *stubShareCache) GetSummary(_ context.Context, code string) *dto.SharedQuizInfoDTO {
	return c.summaries[code]
}

func (c *stubShareCache) SetSummary(_ context.Context, code string, info *dto.SharedQuizInfoDTO) {
	c.summaries[code] = info
}

func (c *stubShareCache) Invalidate(_ context.Context, code string) {
	delete(c.summaries, code)
	c.invalidated = append(c.invalidated, code)
}

type fixture struct {
	db      *gorm.DB
	cache   *stubShareCache
	quiz    QuizService
	share   ShareService
	history HistoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	quizRepo := repository.NewQuizRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	userRepo := repository.NewUserRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	shareCache := newStubShareCache()
	return &fixture{
		db:      db,
		cache:   shareCache,
		quiz:    NewQuizService(quizRepo, questionRepo, shareCache),
		share:   NewShareService(quizRepo, userRepo, shareCache),
		history: NewHistoryService(historyRepo),
	}
}

func (f *fixture) createQuizWithQuestion(t *testing.T, userID uint, title, questionText string, choices []dto.ChoiceCreateDTO) *dto.QuizResponseDTO {
	t.Helper()
	quiz, err := f.quiz.CreateQuiz(userID, dto.QuizCreateDTO{Title: title})
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	if _, err := f.quiz.AddQuestion(quiz.ID, userID, dto.QuestionCreateDTO{
		QuestionText: questionText,
		AnswerType:   model.AnswerTypeOptions,
		Choices:      choices,
	}); err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	full, err := f.quiz.GetQuiz(quiz.ID, userID)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	return full
}
