package service

import (
	"context"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/database"
)

type LocationService struct {
	repo database.LocationRepository
}

func NewLocationService(repo database.LocationRepository) *LocationService {
	return &LocationService{repo: repo}
}

func (s *LocationService) SaveLocation(ctx context.Context, pl *domain.PatientLocation) error {
	return s.repo.Insert(ctx, pl)
}

func (s *LocationService) GetLatest(ctx context.Context, patientID string) (*domain.PatientLocation, error) {
	return s.repo.GetLatest(ctx, patientID)
}

func (s *LocationService) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.PatientLocation, error) {
	return s.repo.GetHistory(ctx, query)
}

func (s *LocationService) GetAllPatients(ctx context.Context) ([]domain.Patient, error) {
	return s.repo.GetAllPatients(ctx)
}
