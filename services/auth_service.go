package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"DoctorPortal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService проверяет учетные данные администратора и выдает JWT.
// Учетная запись берется из окружения: ADMIN_EMAIL и ADMIN_PASSWORD_HASH
// (bcrypt), секрет токена — JWT_SECRET.
type AuthService struct {
	adminEmail   string
	passwordHash string
	secret       []byte
	tokenTTL     time.Duration
}

func NewAuthService() (*AuthService, error) {
	email := os.Getenv("ADMIN_EMAIL")
	hash := os.Getenv("ADMIN_PASSWORD_HASH")
	secret := os.Getenv("JWT_SECRET")
	if email == "" || hash == "" || secret == "" {
		return nil, errors.New("ADMIN_EMAIL, ADMIN_PASSWORD_HASH and JWT_SECRET must be set")
	}
	return &AuthService{
		adminEmail:   email,
		passwordHash: hash,
		secret:       []byte(secret),
		tokenTTL:     24 * time.Hour,
	}, nil
}

// VerifyCredentials сравнивает пару email/пароль с настроенной учеткой
func (s *AuthService) VerifyCredentials(email, password string) (*models.AdminIdentity, error) {
	if !strings.EqualFold(email, s.adminEmail) {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &models.AdminIdentity{Email: s.adminEmail, Role: "admin"}, nil
}

type adminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken выдает токен администратора на 24 часа
func (s *AuthService) IssueToken(identity *models.AdminIdentity) (string, error) {
	claims := adminClaims{
		Email: identity.Email,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken проверяет подпись и срок действия токена
func (s *AuthService) VerifyToken(tokenString string) (*models.AdminIdentity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &adminClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*adminClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return &models.AdminIdentity{Email: claims.Email, Role: claims.Role}, nil
}
