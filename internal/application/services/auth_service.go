package services

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/config"
	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/ports"
)

const adminSubject = "admin"

// Claims represents the JWT claims of an admin session
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// AuthService guards the admin panel with a shared password and short-lived tokens
type AuthService struct {
	cfg    config.AdminConfig
	logger *logger.Logger
	now    func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(cfg config.AdminConfig, log *logger.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 2 * time.Hour
	}
	return &AuthService{
		cfg:    cfg,
		logger: log.WithComponent("auth"),
		now:    time.Now,
	}
}

// Login checks the admin password and issues a session token
func (s *AuthService) Login(req ports.LoginRequest) (*ports.LoginResponse, error) {
	if !s.checkPassword(req.Password) {
		return nil, entities.ErrInvalidPassword
	}

	token, err := s.generateAccessToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.Info("Admin logged in")
	return &ports.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.cfg.TokenTTL.Seconds()),
	}, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*ports.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(s.cfg.Issuer), jwt.WithSubject(adminSubject))

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	out := &ports.Claims{Subject: claims.Subject, SessionID: claims.SessionID}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// checkPassword prefers the bcrypt hash when one is configured
func (s *AuthService) checkPassword(password string) bool {
	if s.cfg.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)) == nil
	}
	if s.cfg.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.cfg.Password), []byte(password)) == 1
}

func (s *AuthService) generateAccessToken() (string, error) {
	now := s.now()
	claims := &Claims{
		SessionID: uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   adminSubject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// HashPassword produces a bcrypt hash suitable for admin.password_hash
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
