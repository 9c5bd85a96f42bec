package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/cache"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/publisher"
)

const (
	dangerStaleAfter       = 30 * time.Minute
	warningStaleAfter      = 15 * time.Minute
	degradedAccuracyMeters = 100
)

// Classify derives a safety status from a sample's freshness and quality.
// Pure: re-derivable at any time from the sample plus the clock. Rules in
// order, first match wins:
//
//  1. danger  — sample older than 30 minutes
//  2. warning — sample older than 15 minutes, or reported accuracy > 100 m
//  3. safe    — otherwise
func Classify(loc *domain.Location, now time.Time, wandering bool) domain.PatientStatus {
	st := domain.PatientStatus{
		LastUpdate:  loc.Timestamp,
		IsWandering: wandering,
	}
	age := now.Sub(loc.Timestamp)
	switch {
	case age > dangerStaleAfter:
		st.Status = domain.StatusDanger
	case age > warningStaleAfter:
		st.Status = domain.StatusWarning
	case loc.AccuracyMeters != nil && *loc.AccuracyMeters > degradedAccuracyMeters:
		st.Status = domain.StatusWarning
	default:
		st.Status = domain.StatusSafe
	}
	return st
}

// AnomalyService recomputes the patient status on every sample, caches the
// result, and publishes a StatusChange only when the classification moved.
type AnomalyService struct {
	publisher publisher.AlertPublisher
	cache     cache.StatusCache
	logger    *zap.Logger
	now       func() time.Time

	mu   sync.Mutex
	last map[string]domain.SafetyStatus
}

func NewAnomalyService(pub publisher.AlertPublisher, statusCache cache.StatusCache, logger *zap.Logger) *AnomalyService {
	return &AnomalyService{
		publisher: pub,
		cache:     statusCache,
		logger:    logger,
		now:       time.Now,
		last:      make(map[string]domain.SafetyStatus),
	}
}

// Observe classifies the sample and returns the derived status. Cache
// failures are logged, not returned; a stale cache entry only delays the
// caregiver view, it does not break the pipeline.
func (s *AnomalyService) Observe(ctx context.Context, pl *domain.PatientLocation) (domain.PatientStatus, error) {
	st := Classify(&pl.Location, s.now(), pl.Wandering)

	if s.cache != nil {
		if err := s.cache.SetStatus(ctx, pl.PatientID, &st); err != nil {
			s.logger.Warn("cache status", zap.String("patient_id", pl.PatientID), zap.Error(err))
		}
	}

	s.mu.Lock()
	prev, seen := s.last[pl.PatientID]
	s.last[pl.PatientID] = st.Status
	s.mu.Unlock()

	if seen && prev != st.Status {
		ch := &domain.StatusChange{
			PatientID: pl.PatientID,
			Previous:  prev,
			Current:   st.Status,
			Timestamp: s.now().Unix(),
		}
		if err := s.publisher.PublishStatusChange(ctx, ch); err != nil {
			return st, err
		}
	}
	return st, nil
}
