package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/meireles/campus-records-api/internal/models"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
)

type authPersonRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Person, error)
	ResolveRole(ctx context.Context, personID int64) (models.Role, error)
}

// AuthConfig defines configuration for credential issuance.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
}

// AuthService verifies credentials and issues session tokens. Tokens are
// stateless: a fixed validity window, no refresh, no revocation list.
type AuthService struct {
	repo      authPersonRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authPersonRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config}
}

// Login authenticates a person and returns a signed session token with
// the role resolved by the student > instructor > staff precedence.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "email and password are required")
	}

	person, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch person")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(person.Password), []byte(req.Password)); err != nil {
		return "", appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	role, err := s.repo.ResolveRole(ctx, person.ID)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve role")
	}

	token, err := s.generateToken(person, role)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create token")
	}

	s.logger.Info("person logged in", zap.Int64("person_id", person.ID), zap.String("role", string(role)))
	return token, nil
}

// ValidateToken parses and validates a session token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token has expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateToken(person *models.Person, role models.Role) (string, error) {
	issuedAt := time.Now().UTC()
	email := ""
	if person.Email != nil {
		email = *person.Email
	}
	claims := &models.JWTClaims{
		PersonID: person.ID,
		Name:     person.Name,
		Email:    email,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiration)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}
