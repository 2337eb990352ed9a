package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/internal/service/activity"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
	"github.com/clinicore/clinic-api/pkg/security"
)

type Service struct {
	repo    repository.UserRepository
	hasher  security.PasswordHasher
	auditor *activity.Service
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher, auditor *activity.Service) *Service {
	return &Service{repo: repo, hasher: hasher, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req *model.CreateUserRequest) (*model.User, error) {
	if existing, _ := s.repo.GetByEmail(ctx, req.Email); existing != nil {
		return nil, apperrors.Conflict("email already registered", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.BadRequest("invalid password", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
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
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to create profile")
	}

	s.auditor.Log(ctx, &actorID, "user.created", "user created", "user", &user.ID,
		&activity.LogOptions{After: user})
	return user, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, int, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, actorID, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}
	before := *user

	if req.Email != nil && *req.Email != user.Email {
		if existing, _ := s.repo.GetByEmail(ctx, *req.Email); existing != nil {
			return nil, apperrors.Conflict("email already registered", nil)
		}
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.auditor.Log(ctx, &actorID, "user.updated", "user updated", "user", &user.ID,
		&activity.LogOptions{Before: before, After: user})
	return user, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return apperrors.NotFound("user", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.auditor.Log(ctx, &actorID, "user.deleted", "user deleted", "user", &id,
		&activity.LogOptions{Severity: model.SeverityWarning})
	return nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("profile", err)
	}
	return profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		profile = &model.Profile{UserID: userID}
	}

	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}
	if req.Phone != nil {
		profile.Phone = req.Phone
	}
	if req.DateOfBirth != nil {
		profile.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != nil {
		profile.Gender = req.Gender
	}
	if req.Address != nil {
		profile.Address = req.Address
	}

	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// SetAvatar stores the uploaded avatar URL on the user's profile.
func (s *Service) SetAvatar(ctx context.Context, userID uuid.UUID, url string) error {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		profile = &model.Profile{UserID: userID}
	}
	profile.AvatarURL = &url
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to store avatar: %w", err)
	}
	return nil
}
