package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/geo"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/database"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/publisher"
)

// GeofenceEvaluator tracks per-(patient, geofence) membership and emits one
// enter/exit event per flip. The first sample for a pair only establishes a
// baseline, so starting the app inside a zone never alerts.
//
// Membership flips exactly at distance <= radius with no hysteresis; a sample
// oscillating on the boundary alerts on every flip. Debounce would go here.
type GeofenceEvaluator struct {
	publisher publisher.AlertPublisher
	geofences database.GeofenceRepository
	logger    *zap.Logger

	mu         sync.Mutex
	membership map[string]bool // patientID + "\x00" + geofenceID
}

func NewGeofenceEvaluator(pub publisher.AlertPublisher, repo database.GeofenceRepository, logger *zap.Logger) *GeofenceEvaluator {
	return &GeofenceEvaluator{
		publisher:  pub,
		geofences:  repo,
		logger:     logger,
		membership: make(map[string]bool),
	}
}

func membershipKey(patientID, geofenceID string) string {
	return patientID + "\x00" + geofenceID
}

// Evaluate checks the sample against every active geofence of the patient.
// A malformed geofence is skipped without aborting the rest of the set.
// The first publish failure is returned after all geofences are evaluated,
// so state stays consistent even when the broker is down.
func (e *GeofenceEvaluator) Evaluate(ctx context.Context, pl *domain.PatientLocation) error {
	fences, err := e.geofences.ListActiveForPatient(ctx, pl.PatientID)
	if err != nil {
		return err
	}

	var firstErr error
	for i := range fences {
		gf := &fences[i]
		if err := gf.Validate(); err != nil {
			e.logger.Warn("skipping malformed geofence",
				zap.String("geofence_id", gf.ID),
				zap.Error(err),
			)
			continue
		}

		inside := geo.DistanceMeters(pl.Location.Coordinate(), gf.Center) <= gf.RadiusMeters

		e.mu.Lock()
		key := membershipKey(pl.PatientID, gf.ID)
		prev, seen := e.membership[key]
		e.membership[key] = inside
		e.mu.Unlock()

		if !seen || prev == inside {
			continue
		}

		ev := &domain.GeofenceEvent{
			PatientID:  pl.PatientID,
			GeofenceID: gf.ID,
			Location:   pl.Location,
			Timestamp:  pl.Location.Timestamp.Unix(),
		}
		switch {
		case inside && gf.AlertOnEnter:
			ev.Type = domain.GeofenceEnter
		case !inside && gf.AlertOnExit:
			ev.Type = domain.GeofenceExit
		default:
			continue
		}

		if err := e.publisher.PublishGeofenceEvent(ctx, ev); err != nil {
			e.logger.Error("publish geofence event",
				zap.String("geofence_id", gf.ID),
				zap.String("type", string(ev.Type)),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Forget drops all membership state for a geofence. Called when a zone is
// deactivated or deleted; a later reactivation re-establishes a fresh
// baseline instead of comparing against stale state.
func (e *GeofenceEvaluator) Forget(geofenceID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	suffix := "\x00" + geofenceID
	for key := range e.membership {
		if len(key) >= len(suffix) && key[len(key)-len(suffix):] == suffix {
			delete(e.membership, key)
		}
	}
}
