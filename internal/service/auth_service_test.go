package service

import (
	"errors"
	"strconv"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quizshare/api/config"
	"github.com/quizshare/api/internal/apperr"
	"github.com/quizshare/api/internal/dto"
	"github.com/quizshare/api/internal/repository"
)

func newAuthFixture(t *testing.T) (AuthService, *config.Config) {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLMin = 60
	return NewAuthService(repository.NewUserRepository(db), cfg), cfg
}

func TestRegisterAndGetUser(t *testing.T) {
	auth, _ := newAuthFixture(t)

	user, err := auth.Register(dto.RegisterDTO{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 || user.Email != "alice@example.com" || user.Name != "Alice" {
		t.Fatalf("unexpected user: %+v", user)
	}

	fetched, err := auth.GetUser(user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if fetched.Email != user.Email {
		t.Fatalf("fetched wrong user: %+v", fetched)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _ := newAuthFixture(t)

	req := dto.RegisterDTO{Email: "alice@example.com", Password: "s3cret-pass", Name: "Alice"}
	if _, err := auth.Register(req); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := auth.Register(req); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLoginIssuesTokenForRegisteredUser(t *testing.T) {
	auth, cfg := newAuthFixture(t)

	user, err := auth.Register(dto.RegisterDTO{Email: "alice@example.com", Password: "s3cret-pass", Name: "Alice"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := auth.Login(dto.LoginDTO{Email: "alice@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token.TokenType != "bearer" || token.AccessToken == "" {
		t.Fatalf("unexpected token: %+v", token)
	}

	// The token must verify with the configured secret and carry the user id.
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token.AccessToken, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Subject != strconv.FormatUint(uint64(user.ID), 10) {
		t.Fatalf("subject = %q, want user id %d", claims.Subject, user.ID)
	}
	if claims.ExpiresAt == nil {
		t.Fatalf("token has no expiry")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth, _ := newAuthFixture(t)

	if _, err := auth.Register(dto.RegisterDTO{Email: "alice@example.com", Password: "s3cret-pass", Name: "Alice"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Wrong password and unknown email fail identically.
	if _, err := auth.Login(dto.LoginDTO{Email: "alice@example.com", Password: "wrong"}); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("wrong password: expected ErrUnauthenticated, got %v", err)
	}
	if _, err := auth.Login(dto.LoginDTO{Email: "nobody@example.com", Password: "s3cret-pass"}); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("unknown email: expected ErrUnauthenticated, got %v", err)
	}
}

func TestGetUserUnknownID(t *testing.T) {
	auth, _ := newAuthFixture(t)

	if _, err := auth.GetUser(999); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
