package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jinzhu/copier"
	"github.com/quizshare/api/config"
	"github.com/quizshare/api/internal/apperr"
	"github.com/quizshare/api/internal/dto"
	"github.com/quizshare/api/internal/model"
	"github.com/quizshare/api/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(req dto.RegisterDTO) (*dto.UserResponseDTO, error)
	Login(req dto.LoginDTO) (*dto.TokenDTO, error)
	GetUser(userID uint) (*dto.UserResponseDTO, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, cfg: cfg}
}

func (s *authService) Register(req dto.RegisterDTO) (*dto.UserResponseDTO, error) {
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, fmt.Errorf("email %s already registered: %w", req.Email, apperr.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking existing email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := model.User{
		Email:          req.Email,
		HashedPassword: string(hashed),
		Name:           req.Name,
	}
	if err := s.userRepo.Create(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("email %s already registered: %w", req.Email, apperr.ErrConflict)
		}
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to create user")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	var resp dto.UserResponseDTO
	copier.Copy(&resp, &user)
	return &resp, nil
}

func (s *authService) Login(req dto.LoginDTO) (*dto.TokenDTO, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		// Same error for unknown email and bad password.
		return nil, fmt.Errorf("incorrect email or password: %w", apperr.ErrUnauthenticated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("incorrect email or password: %w", apperr.ErrUnauthenticated)
	}

	ttl := time.Duration(s.cfg.Auth.TokenTTLMin) * time.Minute
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("Failed to sign access token")
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	return &dto.TokenDTO{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *authService) GetUser(userID uint) (*dto.UserResponseDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, apperr.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("error fetching user %d: %w", userID, err)
	}

	var resp dto.UserResponseDTO
	copier.Copy(&resp, user)
	return &resp, nil
}
