package clinic

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/internal/service/activity"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type Service struct {
	repo    repository.ClinicRepository
	auditor *activity.Service
}

func NewService(repo repository.ClinicRepository, auditor *activity.Service) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req *model.CreateClinicRequest) (*model.Clinic, error) {
	clinic := &model.Clinic{
		Name:         req.Name,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		WorkingHours: req.WorkingHours,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, clinic); err != nil {
		return nil, fmt.Errorf("failed to create clinic: %w", err)
	}
	s.auditor.Log(ctx, &actorID, "clinic.created", "clinic created", "clinic", &clinic.ID,
		&activity.LogOptions{After: clinic})
	return clinic, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	clinic, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("clinic", err)
	}
	return clinic, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Clinic, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, actorID, id uuid.UUID, req *model.UpdateClinicRequest) (*model.Clinic, error) {
	clinic, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("clinic", err)
	}
	before := *clinic

	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.Address != nil {
		clinic.Address = *req.Address
	}
	if req.Phone != nil {
		clinic.Phone = *req.Phone
	}
	if req.Email != nil {
		clinic.Email = *req.Email
	}
	if req.WorkingHours != nil {
		clinic.WorkingHours = req.WorkingHours
	}
	if req.IsActive != nil {
		clinic.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, clinic); err != nil {
		return nil, fmt.Errorf("failed to update clinic: %w", err)
	}
	s.auditor.Log(ctx, &actorID, "clinic.updated", "clinic updated", "clinic", &clinic.ID,
		&activity.LogOptions{Before: before, After: clinic})
	return clinic, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return apperrors.NotFound("clinic", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete clinic: %w", err)
	}
	s.auditor.Log(ctx, &actorID, "clinic.deleted", "clinic deleted", "clinic", &id,
		&activity.LogOptions{Severity: model.SeverityWarning})
	return nil
}

func (s *Service) CreateDepartment(ctx context.Context, actorID uuid.UUID, req *model.CreateDepartmentRequest) (*model.Department, error) {
	if _, err := s.repo.Get(ctx, req.ClinicID); err != nil {
		return nil, apperrors.NotFound("clinic", err)
	}
	department := &model.Department{
		ClinicID: req.ClinicID,
		Name:     req.Name,
		IsActive: true,
	}
	if err := s.repo.CreateDepartment(ctx, department); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	s.auditor.Log(ctx, &actorID, "department.created", "department created", "department", &department.ID, nil)
	return department, nil
}

func (s *Service) ListDepartments(ctx context.Context, clinicID uuid.UUID) ([]*model.Department, error) {
	if _, err := s.repo.Get(ctx, clinicID); err != nil {
		return nil, apperrors.NotFound("clinic", err)
	}
	return s.repo.ListDepartments(ctx, clinicID)
}

func (s *Service) DeleteDepartment(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := s.repo.GetDepartment(ctx, id); err != nil {
		return apperrors.NotFound("department", err)
	}
	if err := s.repo.DeleteDepartment(ctx, id); err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	s.auditor.Log(ctx, &actorID, "department.deleted", "department deleted", "department", &id, nil)
	return nil
}
