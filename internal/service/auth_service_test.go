package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiosklab/visita-gateway/internal/models"
	"github.com/kiosklab/visita-gateway/internal/upstream"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
)

type fakeCredentialSource struct {
	account  upstream.Account
	loginErr error
	created  []upstream.CreateAccountRequest
}

func (f *fakeCredentialSource) Login(context.Context, string, string) (upstream.Account, error) {
	return f.account, f.loginErr
}

func (f *fakeCredentialSource) Logout(context.Context, string) error { return nil }

func (f *fakeCredentialSource) CreateAccount(_ context.Context, req upstream.CreateAccountRequest) error {
	f.created = append(f.created, req)
	return nil
}

func newAuthService(source credentialSource) *AuthService {
	return NewAuthService(source, nil, nil, AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "visita-gateway",
	})
}

func TestLoginIssuesTokenCarryingDepartment(t *testing.T) {
	source := &fakeCredentialSource{account: upstream.Account{
		Username: "dept_head",
		Role:     "department",
		DeptID:   "10",
	}}
	svc := newAuthService(source)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "dept_head", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, models.RoleDepartment, res.User.Role)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "dept_head", claims.Username)
	assert.Equal(t, models.RoleDepartment, claims.Role)
	assert.Equal(t, "10", claims.DeptID)
	assert.Equal(t, "visita-gateway", claims.Issuer)
}

func TestLoginRejectsMissingFields(t *testing.T) {
	svc := newAuthService(&fakeCredentialSource{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "guard1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestLoginPropagatesInvalidCredentials(t *testing.T) {
	svc := newAuthService(&fakeCredentialSource{loginErr: appErrors.ErrInvalidCredentials})

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "guard1", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	svc := newAuthService(&fakeCredentialSource{account: upstream.Account{Username: "x", Role: "superuser"}})

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "x", Password: "secret"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc := newAuthService(&fakeCredentialSource{account: upstream.Account{Username: "admin", Role: "ADMIN"}})

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "secret"})
	require.NoError(t, err)

	other := NewAuthService(&fakeCredentialSource{}, nil, nil, AuthConfig{Secret: "different-secret"})
	_, err = other.ValidateToken(res.AccessToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newAuthService(&fakeCredentialSource{account: upstream.Account{Username: "admin", Role: "ADMIN"}})
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "secret"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(res.AccessToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestCreateUserUppercasesRole(t *testing.T) {
	source := &fakeCredentialSource{}
	svc := newAuthService(source)

	err := svc.CreateUser(context.Background(), models.CreateUserRequest{
		Username: "guard2",
		Password: "secret1",
		Role:     "guard",
	})
	require.NoError(t, err)
	require.Len(t, source.created, 1)
	assert.Equal(t, "GUARD", source.created[0].Role)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := newAuthService(&fakeCredentialSource{})

	err := svc.CreateUser(context.Background(), models.CreateUserRequest{
		Username: "x",
		Password: "secret1",
		Role:     "ROOT",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
