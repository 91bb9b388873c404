package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/meireles/campus-records-api/internal/models"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
)

type mockAuthRepo struct {
	person         *models.Person
	role           models.Role
	findByEmailErr error
	resolveRoleErr error
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.Person, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	return m.person, nil
}

func (m *mockAuthRepo) ResolveRole(ctx context.Context, personID int64) (models.Role, error) {
	if m.resolveRoleErr != nil {
		return models.RoleUnknown, m.resolveRoleErr
	}
	return m.role, nil
}

func testPerson(t *testing.T, password string) *models.Person {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	email := "ana@example.com"
	return &models.Person{ID: 1, Name: "Ana", Email: &email, Password: string(hash)}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo := &mockAuthRepo{person: testPerson(t, "password"), role: models.RoleStudent}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{Secret: "secret", Expiration: time.Hour})

	token, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.PersonID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := &mockAuthRepo{person: testPerson(t, "password"), role: models.RoleStudent}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{Secret: "secret", Expiration: time.Hour})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	repo := &mockAuthRepo{findByEmailErr: sql.ErrNoRows}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{Secret: "secret", Expiration: time.Hour})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginMissingFields(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, validator.New(), zap.NewNop(), AuthConfig{Secret: "secret", Expiration: time.Hour})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAuthServiceValidateTokenExpired(t *testing.T) {
	repo := &mockAuthRepo{person: testPerson(t, "password"), role: models.RoleStaff}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{Secret: "secret", Expiration: -time.Minute})

	token, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "password"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
	assert.Equal(t, "token has expired", appErr.Message)
}

func TestAuthServiceValidateTokenTampered(t *testing.T) {
	repo := &mockAuthRepo{person: testPerson(t, "password"), role: models.RoleStaff}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{Secret: "secret", Expiration: time.Hour})

	token, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "password"})
	require.NoError(t, err)

	other := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{Secret: "different", Expiration: time.Hour})
	_, err = other.ValidateToken(token)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}
