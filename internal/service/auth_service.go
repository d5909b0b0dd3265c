package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
	"github.com/yourusername/cars-practice-api/internal/domain/repository"
	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
	"github.com/yourusername/cars-practice-api/pkg/auth"
)

// TokenIssuer выпускает и проверяет токены доступа
type TokenIssuer interface {
	GenerateToken(userID uint, email string) (string, error)
	ParseToken(tokenString string) (*auth.JWTCustomClaims, error)
}

// AuthService предоставляет методы для регистрации, входа и проверки токенов
type AuthService struct {
	userRepo     repository.UserRepository
	progressRepo repository.ProgressRepository
	tokens       TokenIssuer
}

// AuthResult - пользователь и выпущенный для него токен
type AuthResult struct {
	User  *entity.User
	Token string
}

// TokenIdentity - данные, извлеченные из проверенного токена
type TokenIdentity struct {
	UserID uint
	Email  string
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(
	userRepo repository.UserRepository,
	progressRepo repository.ProgressRepository,
	tokens TokenIssuer,
) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if tokens == nil {
		return nil, fmt.Errorf("TokenIssuer is required for AuthService")
	}
	// progressRepo может быть nil: чтение статистики и так отдает нули
	return &AuthService{
		userRepo:     userRepo,
		progressRepo: progressRepo,
		tokens:       tokens,
	}, nil
}

// Register создает пользователя, пустую статистику и выпускает токен
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	user := &entity.User{
		Email:    email,
		Password: password, // хешируется в BeforeCreate
		Name:     name,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Параллельная регистрация с тем же email
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.progressRepo != nil {
		if err := s.progressRepo.Init(ctx, user.ID); err != nil {
			log.Printf("[AuthService] Не удалось создать статистику для пользователя ID=%d: %v", user.ID, err)
		}
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	log.Printf("[AuthService] Зарегистрирован пользователь ID=%d", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// Login проверяет учетные данные и выпускает токен
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// VerifyToken проверяет токен без обращения к БД
func (s *AuthService) VerifyToken(token string) (*TokenIdentity, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return &TokenIdentity{UserID: claims.UserID, Email: claims.Email}, nil
}

// GetUserByID возвращает пользователя по ID
func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
