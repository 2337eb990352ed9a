package stats

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicore/clinic-api/internal/repository"
)

const dashboardCacheKey = "stats:dashboard"

// Dashboard is the admin overview payload
type Dashboard struct {
	UsersByRole          map[string]int `json:"users_by_role"`
	AppointmentsByStatus map[string]int `json:"appointments_by_status"`
	AppointmentsToday    int            `json:"appointments_today"`
	ActiveClinics        int            `json:"active_clinics"`
	Doctors              int            `json:"doctors"`
	GeneratedAt          time.Time      `json:"generated_at"`
}

// Service aggregates platform counters for the admin dashboard. The counts
// are expensive full scans, so results are cached briefly.
type Service struct {
	repo  repository.StatsRepository
	cache *gocache.Cache
}

func NewService(repo repository.StatsRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(time.Minute, 5*time.Minute),
	}
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	if cached, ok := s.cache.Get(dashboardCacheKey); ok {
		return cached.(*Dashboard), nil
	}

	usersByRole, err := s.repo.CountUsersByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user counts: %w", err)
	}
	appointmentsByStatus, err := s.repo.CountAppointmentsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment counts: %w", err)
	}
	today, err := s.repo.CountAppointmentsOn(ctx, time.Now().Truncate(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to load today's appointment count: %w", err)
	}
	clinics, err := s.repo.CountClinics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clinic count: %w", err)
	}
	doctors, err := s.repo.CountDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load doctor count: %w", err)
	}

	dashboard := &Dashboard{
		UsersByRole:          usersByRole,
		AppointmentsByStatus: appointmentsByStatus,
		AppointmentsToday:    today,
		ActiveClinics:        clinics,
		Doctors:              doctors,
		GeneratedAt:          time.Now(),
	}
	s.cache.Set(dashboardCacheKey, dashboard, gocache.DefaultExpiration)
	return dashboard, nil
}
