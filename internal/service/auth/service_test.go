package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/internal/service/activity"
	"github.com/clinicore/clinic-api/pkg/auth"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
	"github.com/clinicore/clinic-api/pkg/security"
)

type fakeUserRepo struct {
	repository.UserRepository
	byEmail map[string]*model.User
	byID    map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: map[string]*model.User{},
		byID:    map[uuid.UUID]*model.User{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, assert.AnError
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, assert.AnError
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpsertProfile(context.Context, *model.Profile) error { return nil }

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(context.Context, *model.ActivityLog) error { return nil }
func (fakeAuditRepo) List(context.Context, *model.ActivityLogFilters) ([]*model.ActivityLog, int, error) {
	return nil, 0, nil
}
func (fakeAuditRepo) DeleteBefore(context.Context, time.Time) (int64, error) { return 0, nil }

func newFixture(t *testing.T) (*Service, *fakeUserRepo, auth.JWTService) {
	t.Helper()
	users := newFakeUserRepo()
	jwtService := auth.NewJWTService(auth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
	})
	svc := NewService(users, jwtService, security.NewBcryptHasher(4), activity.NewService(fakeAuditRepo{}))
	return svc, users, jwtService
}

func (f *fakeUserRepo) seed(t *testing.T, email, password, role string) *model.User {
	t.Helper()
	hash, err := security.NewBcryptHasher(4).Hash(password)
	require.NoError(t, err)
	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	f.byEmail[email] = user
	f.byID[user.ID] = user
	return user
}

func TestLogin_Succeeds(t *testing.T) {
	svc, users, _ := newFixture(t)
	users.seed(t, "doc@example.com", "correct-horse", model.RoleDoctor)

	user, tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "doc@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	require.NotNil(t, user.LastLoginAt)
	assert.Zero(t, user.FailedLoginAttempts)
}

func TestLogin_WrongPasswordUnauthorized(t *testing.T) {
	svc, users, _ := newFixture(t)
	seeded := users.seed(t, "doc@example.com", "correct-horse", model.RoleDoctor)

	_, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "doc@example.com",
		Password: "wrong-horse-1",
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
	assert.Equal(t, 1, seeded.FailedLoginAttempts)
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	svc, users, _ := newFixture(t)
	seeded := users.seed(t, "doc@example.com", "correct-horse", model.RoleDoctor)

	for i := 0; i < maxFailedLogins; i++ {
		_, _, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "doc@example.com",
			Password: "wrong-horse-1",
		})
		require.Error(t, err)
	}
	require.NotNil(t, seeded.LockedUntil)

	// Even the right password is refused while the lock holds.
	_, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "doc@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestLogin_InactiveAccountForbidden(t *testing.T) {
	svc, users, _ := newFixture(t)
	seeded := users.seed(t, "doc@example.com", "correct-horse", model.RoleDoctor)
	seeded.IsActive = false

	_, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "doc@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestAdminLogin_RejectsNonAdmin(t *testing.T) {
	svc, users, _ := newFixture(t)
	users.seed(t, "doc@example.com", "correct-horse", model.RoleDoctor)

	_, _, err := svc.AdminLogin(context.Background(), &model.LoginRequest{
		Email:    "doc@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestAdminLogin_IssuesAdminToken(t *testing.T) {
	svc, users, jwtService := newFixture(t)
	users.seed(t, "admin@example.com", "correct-horse", model.RoleAdmin)

	user, token, err := svc.AdminLogin(context.Background(), &model.LoginRequest{
		Email:    "admin@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, model.TokenTypeAdmin, claims.Type)
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	svc, users, _ := newFixture(t)
	users.seed(t, "doc@example.com", "correct-horse", model.RoleDoctor)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:     "doc@example.com",
		Password:  "another-pass",
		FirstName: "Dana",
		LastName:  "Doe",
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestRefresh_RejectsInactiveUser(t *testing.T) {
	svc, users, jwtService := newFixture(t)
	seeded := users.seed(t, "doc@example.com", "correct-horse", model.RoleDoctor)

	refresh, err := jwtService.GenerateRefreshToken(seeded)
	require.NoError(t, err)

	seeded.IsActive = false
	_, err = svc.Refresh(context.Background(), refresh)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, users, jwtService := newFixture(t)
	seeded := users.seed(t, "doc@example.com", "correct-horse", model.RoleDoctor)

	access, err := jwtService.GenerateAccessToken(seeded)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), access)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}
