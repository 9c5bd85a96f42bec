package cache

import (
	"context"
	"errors"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
)

// ErrNotFound is returned when no cached entry exists for a patient.
var ErrNotFound = errors.New("cache: not found")

// StatusCache holds the most recent derived status per patient so the HTTP
// API can answer caregiver polls without recomputing or hitting postgres.
type StatusCache interface {
	SetStatus(ctx context.Context, patientID string, st *domain.PatientStatus) error
	GetStatus(ctx context.Context, patientID string) (*domain.PatientStatus, error)
}
