package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/kiosklab/visita-gateway/internal/models"
	"github.com/kiosklab/visita-gateway/internal/upstream"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
)

type credentialSource interface {
	Login(ctx context.Context, username, password string) (upstream.Account, error)
	Logout(ctx context.Context, username string) error
	CreateAccount(ctx context.Context, req upstream.CreateAccountRequest) error
}

// AuthConfig defines configuration for session issuing.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthService verifies credentials against the backend and issues gateway
// sessions as signed JWTs, so route access is validated server side on every
// request instead of trusting client-held state.
type AuthService struct {
	source    credentialSource
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(source credentialSource, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Expiration <= 0 {
		config.Expiration = 12 * time.Hour
	}
	return &AuthService{source: source, validator: validate, logger: logger, config: config, now: time.Now}
}

// Login authenticates against the backend and returns a gateway session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	account, err := s.source.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	role := models.UserRole(strings.ToUpper(strings.TrimSpace(account.Role)))
	if !validRole(role) {
		s.logger.Warn("backend returned unknown role", zap.String("username", account.Username), zap.String("role", account.Role))
		return nil, appErrors.Clone(appErrors.ErrForbidden, "account role is not recognised")
	}

	user := models.UserInfo{
		Username: account.Username,
		Role:     role,
		DeptID:   account.DeptID,
		ProfID:   account.ProfID,
	}

	token, issuedAt, expiresAt, err := s.signToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(expiresAt.Sub(issuedAt).Seconds()),
		User:        user,
		IssuedAt:    issuedAt,
	}, nil
}

// Logout tells the backend the session ended. Tokens are stateless, so a
// backend failure here only gets logged; the client discards the token
// either way.
func (s *AuthService) Logout(ctx context.Context, username string) {
	if err := s.source.Logout(ctx, username); err != nil {
		s.logger.Debug("backend logout failed", zap.String("username", username), zap.Error(err))
	}
}

// CreateUser provisions a backend account. Role is validated before the
// request leaves the gateway.
func (s *AuthService) CreateUser(ctx context.Context, req models.CreateUserRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	role := models.UserRole(strings.ToUpper(strings.TrimSpace(req.Role)))
	if !validRole(role) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}
	return s.source.CreateAccount(ctx, upstream.CreateAccountRequest{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
		Role:     string(role),
		DeptID:   req.DeptID,
		ProfID:   req.ProfID,
	})
}

// ValidateToken parses and verifies a gateway-issued access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) signToken(user models.UserInfo) (string, time.Time, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiration)
	claims := &models.JWTClaims{
		Username: user.Username,
		Role:     user.Role,
		DeptID:   user.DeptID,
		ProfID:   user.ProfID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	return signed, issuedAt, expiresAt, nil
}

func validRole(role models.UserRole) bool {
	switch role {
	case models.RoleAdmin, models.RoleGuard, models.RoleDepartment, models.RoleFaculty:
		return true
	}
	return false
}
