package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quizshare/api/internal/apperr"
	"github.com/quizshare/api/internal/cache"
	"github.com/quizshare/api/internal/dto"
	"github.com/quizshare/api/internal/model"
	"github.com/quizshare/api/internal/repository"
	"github.com/quizshare/api/internal/sharecode"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// maxCodeAttempts bounds the generate-and-check loop. With a 31-character
// alphabet and 6-character codes exhausting it means the code space is in
// real trouble, so the failure is reported as a capacity error instead of
// retrying forever.
const maxCodeAttempts = 10

type ShareService interface {
	IssueCode(quizID, userID uint) (*dto.ShareCodeDTO, error)
	RevokeCode(ctx context.Context, quizID, userID uint) error
	ResolveSummary(ctx context.Context, code string) (*dto.SharedQuizInfoDTO, error)
	ResolveFull(code string) (*dto.QuizResponseDTO, error)
	ListShared(userID uint) ([]dto.SharedQuizInfoDTO, error)
}

type shareService struct {
	quizRepo   repository.QuizRepository
	userRepo   repository.UserRepository
	shareCache cache.ShareCache
}

func NewShareService(quizRepo repository.QuizRepository, userRepo repository.UserRepository, shareCache cache.ShareCache) ShareService {
	return &shareService{quizRepo: quizRepo, userRepo: userRepo, shareCache: shareCache}
}

// IssueCode allocates a share code and flips the quiz public, or returns the
// existing code unchanged: codes are stable for the life of a quiz's public
// visibility. Candidate codes are checked against every stored code, then the
// unique index has the final word; a duplicate at commit time counts as a
// collision and burns one attempt.
func (s *shareService) IssueCode(quizID, userID uint) (*dto.ShareCodeDTO, error) {
	quiz, err := s.ownedQuiz(quizID, userID)
	if err != nil {
		return nil, err
	}

	if quiz.ShareCode != nil {
		return &dto.ShareCodeDTO{ShareCode: *quiz.ShareCode, Message: "Existing code"}, nil
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := sharecode.Generate(sharecode.DefaultLength)

		exists, err := s.quizRepo.CodeExists(code)
		if err != nil {
			return nil, fmt.Errorf("error checking code uniqueness: %w", err)
		}
		if exists {
			continue
		}

		err = s.quizRepo.SetShareCode(quizID, &code, true)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent issuance; try a new code.
			continue
		}
		if err != nil {
			log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to persist share code")
			return nil, fmt.Errorf("database error storing share code: %w", err)
		}

		log.Info().Uint("quizID", quizID).Str("code", code).Msg("Share code issued")
		return &dto.ShareCodeDTO{ShareCode: code, Message: "Code generated successfully"}, nil
	}

	log.Error().Uint("quizID", quizID).Int("attempts", maxCodeAttempts).Msg("Share code space exhausted")
	return nil, fmt.Errorf("quiz %d: %w", quizID, apperr.ErrCodeSpaceExhausted)
}

func (s *shareService) RevokeCode(ctx context.Context, quizID, userID uint) error {
	quiz, err := s.ownedQuiz(quizID, userID)
	if err != nil {
		return err
	}

	if err := s.quizRepo.SetShareCode(quizID, nil, false); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to revoke share code")
		return fmt.Errorf("database error revoking share code: %w", err)
	}

	if quiz.ShareCode != nil && s.shareCache != nil {
		s.shareCache.Invalidate(ctx, *quiz.ShareCode)
	}

	log.Info().Uint("quizID", quizID).Msg("Share code revoked")
	return nil
}

// ResolveSummary returns quiz metadata for a code holder: title, owner name
// and question count, never any question content. Summaries are cached in
// redis for a few minutes; a miss or cache error reads through to the store.
func (s *shareService) ResolveSummary(ctx context.Context, code string) (*dto.SharedQuizInfoDTO, error) {
	canonical := strings.ToUpper(code)

	if s.shareCache != nil {
		if info := s.shareCache.GetSummary(ctx, canonical); info != nil {
			return info, nil
		}
	}

	quiz, err := s.publicQuiz(canonical)
	if err != nil {
		return nil, err
	}

	info, err := s.summaryFor(quiz, nil)
	if err != nil {
		return nil, err
	}

	if s.shareCache != nil {
		s.shareCache.SetSummary(ctx, canonical, info)
	}
	return info, nil
}

// ResolveFull returns the whole aggregate for playing the quiz, including
// is_correct on every choice; the client grades locally against it.
func (s *shareService) ResolveFull(code string) (*dto.QuizResponseDTO, error) {
	canonical := strings.ToUpper(code)

	quiz, err := s.quizRepo.FindByShareCodeWithQuestions(canonical)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("code %s: %w", canonical, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("error resolving code %s: %w", canonical, err)
	}

	return quizToDTO(quiz), nil
}

func (s *shareService) ListShared(userID uint) ([]dto.SharedQuizInfoDTO, error) {
	owner, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching user %d: %w", userID, err)
	}

	quizzes, err := s.quizRepo.FindSharedByOwner(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to list shared quizzes")
		return nil, fmt.Errorf("error fetching shared quizzes: %w", err)
	}

	infos := make([]dto.SharedQuizInfoDTO, 0, len(quizzes))
	for _, q := range quizzes {
		infos = append(infos, dto.SharedQuizInfoDTO{
			ID:            q.Quiz.ID,
			Title:         q.Quiz.Title,
			OwnerName:     owner.Name,
			QuestionCount: q.QuestionCount,
			ShareCode:     q.Quiz.ShareCode,
			CreatedAt:     q.Quiz.CreatedAt,
		})
	}
	return infos, nil
}

func (s *shareService) ownedQuiz(quizID, userID uint) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByIDAndOwner(quizID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz %d: %w", quizID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching quiz %d: %w", quizID, err)
	}
	return quiz, nil
}

func (s *shareService) publicQuiz(canonicalCode string) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByShareCode(canonicalCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("code %s: %w", canonicalCode, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("error resolving code %s: %w", canonicalCode, err)
	}
	return quiz, nil
}

func (s *shareService) summaryFor(quiz *model.Quiz, owner *model.User) (*dto.SharedQuizInfoDTO, error) {
	ownerName := "Unknown"
	if owner == nil {
		var err error
		owner, err = s.userRepo.FindByID(quiz.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("error fetching quiz owner: %w", err)
		}
	}
	if owner != nil {
		ownerName = owner.Name
	}

	count, err := s.quizRepo.CountQuestions(quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("error counting questions for quiz %d: %w", quiz.ID, err)
	}

	return &dto.SharedQuizInfoDTO{
		ID:            quiz.ID,
		Title:         quiz.Title,
		OwnerName:     ownerName,
		QuestionCount: int(count),
		ShareCode:     quiz.ShareCode,
		CreatedAt:     quiz.CreatedAt,
	}, nil
}
