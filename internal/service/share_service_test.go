package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quizshare/api/internal/apperr"
	"github.com/quizshare/api/internal/dto"
	"github.com/quizshare/api/internal/model"
	"github.com/quizshare/api/internal/sharecode"
)

func TestIssueCodeFormat(t *testing.T) {
	f := newFixture(t)
	owner := seedUser(t, f.db, "owner@example.com", "Owner")
	quiz := f.createQuizWithQuestion(t, owner.ID, "Quiz", "q", []dto.ChoiceCreateDTO{{ChoiceText: "a"}})

	code, err := f.share.IssueCode(quiz.ID, owner.ID)
	if err != nil {
		t.Fatalf("IssueCode: %v", err)
	}
	if len(code.ShareCode) != sharecode.DefaultLength {
		t.Fatalf("expected %d-char code, got %q", sharecode.DefaultLength, code.ShareCode)
	}
	for _, c := range code.ShareCode {
		if !strings.ContainsRune(sharecode.Alphabet, c) {
			t.Fatalf("code %q contains %q outside the alphabet", code.ShareCode, c)
		}
	}
}

func TestIssueCodeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	owner := seedUser(t, f.db, "owner@example.com", "Owner")
	quiz := f.createQuizWithQuestion(t, owner.ID, "Quiz", "q", []dto.ChoiceCreateDTO{{ChoiceText: "a"}})

	first, err := f.share.IssueCode(quiz.ID, owner.ID)
	if err != nil {
		t.Fatalf("first IssueCode: %v", err)
	}
	second, err := f.share.IssueCode(quiz.ID, owner.ID)
	if err != nil {
		t.Fatalf("second IssueCode: %v", err)
	}
	if first.ShareCode != second.ShareCode {
		t.Fatalf("code changed without revocation: %q then %q", first.ShareCode, second.ShareCode)
	}
}

func TestIssueCodeRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	owner := seedUser(t, f.db, "owner@example.com", "Owner")
	stranger := seedUser(t, f.db, "stranger@example.com", "Stranger")
	quiz := f.createQuizWithQuestion(t, owner.ID, "Quiz", "q", []dto.ChoiceCreateDTO{{ChoiceText: "a"}})

	if _, err := f.share.IssueCode(quiz.ID, stranger.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// The "Capitals" walkthrough: issue, resolve by another user, revoke.
func TestSharedQuizLifecycle(t *testing.T) {
	f := newFixture(t)
	owner := seedUser(t, f.db, "u1@example.com", "U1")

	quiz := f.createQuizWithQuestion(t, owner.ID, "Capitals", "Capital of France?", []dto.ChoiceCreateDTO{
		{ChoiceText: "Paris", IsCorrect: true},
		{ChoiceText: "Lyon", IsCorrect: false},
	})

	issued, err := f.share.IssueCode(quiz.ID, owner.ID)
	if err != nil {
		t.Fatalf("IssueCode: %v", err)
	}

	// Any holder of the code can fetch the full playable quiz, correctness
	// flags included.
	full, err := f.share.ResolveFull(issued.ShareCode)
	if err != nil {
		t.Fatalf("ResolveFull: %v", err)
	}
	if full.Title != "Capitals" || len(full.Questions) != 1 {
		t.Fatalf("unexpected resolved quiz: %+v", full)
	}
	choices := full.Questions[0].Choices
	if len(choices) != 2 || choices[0].ChoiceText != "Paris" || !choices[0].IsCorrect || choices[1].IsCorrect {
		t.Fatalf("choice correctness lost in resolution: %+v", choices)
	}

	// Lookup is case-insensitive.
	if _, err := f.share.ResolveFull(strings.ToLower(issued.ShareCode)); err != nil {
		t.Fatalf("lower-case ResolveFull: %v", err)
	}

	if err := f.share.RevokeCode(context.Background(), quiz.ID, owner.ID); err != nil {
		t.Fatalf("RevokeCode: %v", err)
	}
	if _, err := f.share.ResolveFull(issued.ShareCode); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("resolve after revoke: expected ErrNotFound, got %v", err)
	}
	if _, err := f.share.ResolveSummary(context.Background(), issued.ShareCode); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("summary after revoke: expected ErrNotFound, got %v", err)
	}

	// Re-issuing after revocation produces a fresh valid code.
	reissued, err := f.share.IssueCode(quiz.ID, owner.ID)
	if err != nil {
		t.Fatalf("re-IssueCode: %v", err)
	}
	if len(reissued.ShareCode) != sharecode.DefaultLength {
		t.Fatalf("reissued code malformed: %q", reissued.ShareCode)
	}
	if _, err := f.share.ResolveFull(reissued.ShareCode); err != nil {
		t.Fatalf("resolve reissued code: %v", err)
	}
}

func TestResolveSummaryNeverContainsQuestionContent(t *testing.T) {
	f := newFixture(t)
	owner := seedUser(t, f.db, "owner@example.com", "Alice")
	quiz := f.createQuizWithQuestion(t, owner.ID, "Secrets", "what is hidden?", []dto.ChoiceCreateDTO{
		{ChoiceText: "the answer", IsCorrect: true},
	})

	issued, err := f.share.IssueCode(quiz.ID, owner.ID)
	if err != nil {
		t.Fatalf("IssueCode: %v", err)
	}

	summary, err := f.share.ResolveSummary(context.Background(), issued.ShareCode)
	if err != nil {
		t.Fatalf("ResolveSummary: %v", err)
	}
	if summary.Title != "Secrets" || summary.OwnerName != "Alice" || summary.QuestionCount != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.ShareCode == nil || *summary.ShareCode != issued.ShareCode {
		t.Fatalf("summary code mismatch: %+v", summary.ShareCode)
	}
}

func TestResolveRejectsNonPublicQuizWithStaleCode(t *testing.T) {
	f := newFixture(t)
	owner := seedUser(t, f.db, "owner@example.com", "Owner")
	quiz := f.createQuizWithQuestion(t, owner.ID, "Quiz", "q", []dto.ChoiceCreateDTO{{ChoiceText: "a"}})

	// A code present while is_public is false must never resolve, even if
	// some write path left the pair inconsistent.
	if err := f.db.Model(&model.Quiz{}).Where("id = ?", quiz.ID).
		Updates(map[string]interface{}{"share_code": "ABCDEF", "is_public": false}).Error; err != nil {
		t.Fatalf("force stale code: %v", err)
	}

	if _, err := f.share.ResolveSummary(context.Background(), "ABCDEF"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("summary: expected ErrNotFound, got %v", err)
	}
	if _, err := f.share.ResolveFull("abcdef"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("full: expected ErrNotFound, got %v", err)
	}
}

func TestResolveSummaryServedFromCache(t *testing.T) {
	f := newFixture(t)
	owner := seedUser(t, f.db, "owner@example.com", "Owner")
	quiz := f.createQuizWithQuestion(t, owner.ID, "Cached", "q", []dto.ChoiceCreateDTO{{ChoiceText: "a"}})

	issued, err := f.share.IssueCode(quiz.ID, owner.ID)
	if err != nil {
		t.Fatalf("IssueCode: %v", err)
	}

	// First resolution populates the cache.
	if _, err := f.share.ResolveSummary(context.Background(), issued.ShareCode); err != nil {
		t.Fatalf("ResolveSummary: %v", err)
	}
	if f.cache.summaries[issued.ShareCode] == nil {
		t.Fatalf("summary was not cached")
	}

	// Retitle behind the cache's back; the stale summary is served until the
	// TTL or an invalidation.
	if _, err := f.quiz.RenameQuiz(quiz.ID, owner.ID, dto.QuizUpdateDTO{Title: "Renamed"}); err != nil {
		t.Fatalf("RenameQuiz: %v", err)
	}
	summary, err := f.share.ResolveSummary(context.Background(), issued.ShareCode)
	if err != nil {
		t.Fatalf("cached ResolveSummary: %v", err)
	}
	if summary.Title != "Cached" {
		t.Fatalf("expected cached title, got %q", summary.Title)
	}
}

func TestRevokeInvalidatesCachedSummary(t *testing.T) {
	f := newFixture(t)
	owner := seedUser(t, f.db, "owner@example.com", "Owner")
	quiz := f.createQuizWithQuestion(t, owner.ID, "Quiz", "q", []dto.ChoiceCreateDTO{{ChoiceText: "a"}})

	issued, err := f.share.IssueCode(quiz.ID, owner.ID)
	if err != nil {
		t.Fatalf("IssueCode: %v", err)
	}
	if _, err := f.share.ResolveSummary(context.Background(), issued.ShareCode); err != nil {
		t.Fatalf("ResolveSummary: %v", err)
	}

	if err := f.share.RevokeCode(context.Background(), quiz.ID, owner.ID); err != nil {
		t.Fatalf("RevokeCode: %v", err)
	}
	if f.cache.summaries[issued.ShareCode] != nil {
		t.Fatalf("cache entry survived revocation")
	}
	if len(f.cache.invalidated) == 0 || f.cache.invalidated[0] != issued.ShareCode {
		t.Fatalf("expected invalidation of %q, got %v", issued.ShareCode, f.cache.invalidated)
	}
}

func TestDeleteQuizInvalidatesCachedSummary(t *testing.T) {
	f := newFixture(t)
	owner := seedUser(t, f.db, "owner@example.com", "Owner")
	quiz := f.createQuizWithQuestion(t, owner.ID, "Quiz", "q", []dto.ChoiceCreateDTO{{ChoiceText: "a"}})

	issued, err := f.share.IssueCode(quiz.ID, owner.ID)
	if err != nil {
		t.Fatalf("IssueCode: %v", err)
	}
	if _, err := f.share.ResolveSummary(context.Background(), issued.ShareCode); err != nil {
		t.Fatalf("ResolveSummary: %v", err)
	}

	if err := f.quiz.DeleteQuiz(context.Background(), quiz.ID, owner.ID); err != nil {
		t.Fatalf("DeleteQuiz: %v", err)
	}
	if f.cache.summaries[issued.ShareCode] != nil {
		t.Fatalf("cache entry survived quiz deletion")
	}
}

func TestListSharedReturnsOnlyPublicQuizzes(t *testing.T) {
	f := newFixture(t)
	owner := seedUser(t, f.db, "owner@example.com", "Owner")

	shared := f.createQuizWithQuestion(t, owner.ID, "Shared", "q", []dto.ChoiceCreateDTO{{ChoiceText: "a"}})
	f.createQuizWithQuestion(t, owner.ID, "Private", "q", []dto.ChoiceCreateDTO{{ChoiceText: "a"}})

	issued, err := f.share.IssueCode(shared.ID, owner.ID)
	if err != nil {
		t.Fatalf("IssueCode: %v", err)
	}

	infos, err := f.share.ListShared(owner.ID)
	if err != nil {
		t.Fatalf("ListShared: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected 1 shared quiz, got %d", len(infos))
	}
	if infos[0].Title != "Shared" || infos[0].ShareCode == nil || *infos[0].ShareCode != issued.ShareCode {
		t.Fatalf("unexpected shared info: %+v", infos[0])
	}
	if infos[0].OwnerName != "Owner" || infos[0].QuestionCount != 1 {
		t.Fatalf("unexpected shared info fields: %+v", infos[0])
	}
}
