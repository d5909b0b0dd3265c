package auth

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
)

const (
	// Issuer - издатель токенов
	Issuer = "cars-practice-api"

	// DefaultExpirationHrs - время жизни токена по умолчанию (7 дней)
	DefaultExpirationHrs = 7 * 24
)

// ErrInvalidToken - подпись неверна, формат битый, алгоритм не тот или срок истек
var ErrInvalidToken = apperrors.New(apperrors.ErrUnauthorized, "invalid or expired token")

// JWTCustomClaims содержит пользовательские поля для токена
type JWTCustomClaims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService выпускает и проверяет HS256 токены на общем секрете.
// Состояния не хранит: проверка токена не ходит в БД.
type JWTService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewJWTService создает новый сервис JWT и возвращает ошибку при проблемах
func NewJWTService(secret string, expirationHrs int) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("JWT secret is required for JWTService")
	}
	if expirationHrs <= 0 {
		expirationHrs = DefaultExpirationHrs
	}
	return &JWTService{
		secret:     []byte(secret),
		expiration: time.Duration(expirationHrs) * time.Hour,
		now:        time.Now,
	}, nil
}

// WithClock подменяет источник времени (для тестов)
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	s.now = now
	return s
}

// Expiration возвращает время жизни выпускаемых токенов
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}

// GenerateToken создает новый JWT токен для пользователя
func (s *JWTService) GenerateToken(userID uint, email string) (string, error) {
	issuedAt := s.now()
	claims := &JWTCustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.expiration)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    Issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		log.Printf("[JWT] Ошибка генерации токена для пользователя ID=%d: %v", userID, err)
		return "", err
	}
	return tokenString, nil
}

// ParseToken проверяет подпись, алгоритм и срок действия токена.
// Любая ошибка сводится к ErrInvalidToken.
func (s *JWTService) ParseToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}

	// Срок проверяем сами, чтобы работали подмененные часы
	parser := jwt.NewParser(jwt.WithoutClaimsValidation(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				log.Printf("[JWT] Ошибка: Токен имеет неверный формат")
			case ve.Errors&jwt.ValidationErrorSignatureInvalid != 0:
				log.Printf("[JWT] Ошибка: Неверная подпись токена")
			default:
				log.Printf("[JWT] Ошибка при разборе токена: %v", err)
			}
		} else {
			log.Printf("[JWT] Ошибка при разборе токена: %v", err)
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if !claims.VerifyExpiresAt(s.now(), true) {
		log.Printf("[JWT] Ошибка: Токен истек срок действия для пользователя ID=%d", claims.UserID)
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
