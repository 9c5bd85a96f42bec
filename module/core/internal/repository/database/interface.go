package database

import (
	"context"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
)

type LocationRepository interface {
	Insert(ctx context.Context, loc *domain.PatientLocation) error
	GetLatest(ctx context.Context, patientID string) (*domain.PatientLocation, error)
	GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.PatientLocation, error)
	GetAllPatients(ctx context.Context) ([]domain.Patient, error)
}

type GeofenceRepository interface {
	Create(ctx context.Context, gf *domain.Geofence) error
	Update(ctx context.Context, gf *domain.Geofence) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Geofence, error)
	ListForPatient(ctx context.Context, patientID string) ([]domain.Geofence, error)
	ListActiveForPatient(ctx context.Context, patientID string) ([]domain.Geofence, error)
}
