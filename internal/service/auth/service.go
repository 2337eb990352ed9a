package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/internal/service/activity"
	"github.com/clinicore/clinic-api/pkg/auth"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
	"github.com/clinicore/clinic-api/pkg/security"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

type Service struct {
	users   repository.UserRepository
	jwt     auth.JWTService
	hasher  security.PasswordHasher
	auditor *activity.Service
}

func NewService(users repository.UserRepository, jwt auth.JWTService, hasher security.PasswordHasher, auditor *activity.Service) *Service {
	return &Service{users: users, jwt: jwt, hasher: hasher, auditor: auditor}
}

// Register creates a patient or doctor account. Admin accounts are only
// created through the user management surface.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if existing, _ := s.users.GetByEmail(ctx, req.Email); existing != nil {
		return nil, apperrors.Conflict("email already registered", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.BadRequest("invalid password", err)
	}

	role := req.Role
	if role == "" {
		role = model.RolePatient
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	profile := &model.Profile{
		UserID:    user.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Phone != "" {
		profile.Phone = &req.Phone
	}
	if err := s.users.UpsertProfile(ctx, profile); err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to create profile on registration")
	}

	s.auditor.Log(ctx, &user.ID, "user.registered", "user registered", "user", &user.ID, nil)
	return user, nil
}

// Login authenticates a user and issues a token pair. Failed attempts are
// counted per account; the account locks after maxFailedLogins.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.User, *model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, apperrors.Unauthorized("invalid credentials", model.ErrInvalidCredentials)
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return nil, nil, apperrors.Forbidden("account is locked, please try again later", model.ErrAccountLocked)
	}
	if !user.IsActive {
		return nil, nil, apperrors.Forbidden("account is deactivated", model.ErrAccountInactive)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.recordFailedLogin(ctx, user)
		return nil, nil, apperrors.Unauthorized("invalid credentials", model.ErrInvalidCredentials)
	}

	now := time.Now()
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to record login")
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	s.auditor.Log(ctx, &user.ID, "user.login", "user logged in", "user", &user.ID, nil)
	return user, tokens, nil
}

// AdminLogin authenticates an admin and issues the admin cookie token.
// Non-admin accounts get the same rejection as bad credentials.
func (s *Service) AdminLogin(ctx context.Context, req *model.LoginRequest) (*model.User, string, error) {
	user, _, err := s.Login(ctx, req)
	if err != nil {
		return nil, "", err
	}

	if user.Role != model.RoleAdmin {
		return nil, "", apperrors.Unauthorized("invalid credentials", model.ErrInvalidCredentials)
	}

	token, err := s.jwt.GenerateAdminToken(user)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	return user, token, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token", err)
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token", err)
	}
	if !user.IsActive {
		return nil, apperrors.Forbidden("account is deactivated", model.ErrAccountInactive)
	}

	return s.issueTokens(user)
}

func (s *Service) issueTokens(user *model.User) (*model.TokenResponse, error) {
	access, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) recordFailedLogin(ctx context.Context, user *model.User) {
	user.FailedLoginAttempts++
	if user.FailedLoginAttempts >= maxFailedLogins {
		until := time.Now().Add(lockoutDuration)
		user.LockedUntil = &until
		user.FailedLoginAttempts = 0
		s.auditor.Log(ctx, &user.ID, "user.locked", "account locked after repeated failed logins", "user", &user.ID,
			&activity.LogOptions{Severity: model.SeverityWarning})
	}
	if err := s.users.Update(ctx, user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to record failed login")
	}
}
