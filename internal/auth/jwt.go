// internal/auth/jwt.go
package auth

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"card-optimizer/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrAdminDisabled   = errors.New("admin key not configured")
)

type TokenService struct {
	secretKey []byte
	adminKey  string
	expiresIn time.Duration
	now       func() time.Time
}

func NewTokenService(cfg config.Config) *TokenService {
	return &TokenService{
		secretKey: []byte(cfg.JWTSecret),
		adminKey:  cfg.AdminKey,
		expiresIn: cfg.JWTExpiresIn,
		now:       time.Now,
	}
}

// Login exchanges the configured admin key for a signed admin token.
func (s *TokenService) Login(adminKey string) (string, error) {
	if s.adminKey == "" {
		return "", ErrAdminDisabled
	}
	if subtle.ConstantTimeCompare([]byte(adminKey), []byte(s.adminKey)) != 1 {
		return "", ErrInvalidAdminKey
	}
	return s.GenerateToken(RoleAdmin)
}

// GenerateToken signs an HS256 token carrying role.
func (s *TokenService) GenerateToken(role string) (string, error) {
	now := s.now()
	expTime := now.Add(s.expiresIn)
	claims := jwt.MapClaims{
		"sub":  role,
		"role": role,
		"iat":  now.Unix(),
		"exp":  expTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(s.secretKey)
	if err == nil {
		slog.Info("JWT generated", "role", role, "expires_at", expTime.Format("2006-01-02 15:04:05"))
	}
	return tokenStr, err
}

// ParseToken validates tokenStr and returns its role claim.
func (s *TokenService) ParseToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if role, ok := claims["role"].(string); ok && role != "" {
			slog.Debug("JWT parsed successfully", "role", role)
			return role, nil
		}
	}
	return "", errors.New("invalid token claims")
}
