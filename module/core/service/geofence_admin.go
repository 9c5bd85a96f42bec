package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/database"
)

type membershipForgetter interface {
	Forget(geofenceID string)
}

// GeofenceAdminService is the caregiver-facing write surface for safe
// zones. It keeps the evaluator's membership state in sync: deactivating or
// deleting a zone discards its baselines.
type GeofenceAdminService struct {
	repo      database.GeofenceRepository
	evaluator membershipForgetter
}

func NewGeofenceAdminService(repo database.GeofenceRepository, evaluator membershipForgetter) *GeofenceAdminService {
	return &GeofenceAdminService{repo: repo, evaluator: evaluator}
}

func (s *GeofenceAdminService) Create(ctx context.Context, gf *domain.Geofence) error {
	if err := gf.Validate(); err != nil {
		return err
	}
	if gf.ID == "" {
		gf.ID = uuid.NewString()
	}
	return s.repo.Create(ctx, gf)
}

func (s *GeofenceAdminService) Update(ctx context.Context, gf *domain.Geofence) error {
	if err := gf.Validate(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, gf); err != nil {
		return err
	}
	if !gf.Active {
		s.evaluator.Forget(gf.ID)
	}
	return nil
}

func (s *GeofenceAdminService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evaluator.Forget(id)
	return nil
}

func (s *GeofenceAdminService) GetByID(ctx context.Context, id string) (*domain.Geofence, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *GeofenceAdminService) ListForPatient(ctx context.Context, patientID string) ([]domain.Geofence, error) {
	return s.repo.ListForPatient(ctx, patientID)
}
