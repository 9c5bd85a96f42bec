package service

import (
	"bytes"
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/publisher"
)

// BeaconConfig tunes device recognition and the RSSI path-loss model.
// BLE propagation varies per deployment (indoor vs outdoor), so measured
// power and path loss are configurable.
type BeaconConfig struct {
	// RecognizedNames accepts a reading when the advertised name contains
	// any of these substrings (case-insensitive).
	RecognizedNames []string
	// Signatures accepts a reading when its manufacturer data starts with
	// any of these byte prefixes (vendor id + beacon type).
	Signatures [][]byte
	// MeasuredPowerAt1m is the calibrated RSSI at one meter, in dBm.
	MeasuredPowerAt1m float64
	PathLossExponent  float64
	// ProximityThresholdMeters is the distance under which a proximity
	// event is signalled.
	ProximityThresholdMeters float64
}

// DefaultBeaconConfig recognizes the guardian wearable tags and iBeacon
// frames (Apple vendor id 0x004C, type 0x02, length 0x15).
func DefaultBeaconConfig() BeaconConfig {
	return BeaconConfig{
		RecognizedNames:          []string{"guardian", "pass-tag"},
		Signatures:               [][]byte{{0x4c, 0x00, 0x02, 0x15}},
		MeasuredPowerAt1m:        -59,
		PathLossExponent:         2.5,
		ProximityThresholdMeters: 10,
	}
}

// BeaconEstimator folds raw scan callbacks into a live registry of nearby
// tags. Distances are log-distance path-loss estimates, not guaranteed
// physical distances; accuracy degrades sharply beyond roughly 10-15 m.
type BeaconEstimator struct {
	cfg       BeaconConfig
	publisher publisher.AlertPublisher
	logger    *zap.Logger

	mu        sync.Mutex
	records   map[string]domain.BeaconRecord
	closestID string
}

func NewBeaconEstimator(cfg BeaconConfig, pub publisher.AlertPublisher, logger *zap.Logger) *BeaconEstimator {
	return &BeaconEstimator{
		cfg:       cfg,
		publisher: pub,
		logger:    logger,
		records:   make(map[string]domain.BeaconRecord),
	}
}

// EstimateDistanceMeters converts an RSSI sample to meters with the
// log-distance model, rounded to 2 decimal places.
func (e *BeaconEstimator) EstimateDistanceMeters(rssi int) float64 {
	d := math.Pow(10, (e.cfg.MeasuredPowerAt1m-float64(rssi))/(10*e.cfg.PathLossExponent))
	return math.Round(d*100) / 100
}

func (e *BeaconEstimator) recognized(r *domain.BeaconReading) bool {
	name := strings.ToLower(r.Name)
	for _, sub := range e.cfg.RecognizedNames {
		if sub != "" && strings.Contains(name, strings.ToLower(sub)) {
			return true
		}
	}
	for _, sig := range e.cfg.Signatures {
		if len(sig) > 0 && bytes.HasPrefix(r.ManufacturerData, sig) {
			return true
		}
	}
	return false
}

// Process accepts or silently discards one reading. Accepted readings
// replace the registry entry for the device and may emit a
// closest-beacon-changed or proximity event.
func (e *BeaconEstimator) Process(ctx context.Context, r *domain.BeaconReading) error {
	if !e.recognized(r) {
		return nil
	}

	dist := e.EstimateDistanceMeters(r.RSSI)
	rec := domain.BeaconRecord{
		DeviceID:                r.DeviceID,
		Name:                    r.Name,
		EstimatedDistanceMeters: dist,
		RSSI:                    r.RSSI,
		LastSeen:                r.Timestamp,
	}

	e.mu.Lock()
	e.records[r.DeviceID] = rec
	closest, _ := e.closestLocked()
	changed := closest.DeviceID != e.closestID
	e.closestID = closest.DeviceID
	e.mu.Unlock()

	var firstErr error
	if changed {
		ev := &domain.BeaconEvent{
			Type:           domain.ClosestBeaconChanged,
			DeviceID:       closest.DeviceID,
			DistanceMeters: closest.EstimatedDistanceMeters,
			Timestamp:      r.Timestamp.Unix(),
		}
		if err := e.publisher.PublishBeaconEvent(ctx, ev); err != nil {
			e.logger.Error("publish closest beacon change", zap.Error(err))
			firstErr = err
		}
	}

	if dist < e.cfg.ProximityThresholdMeters {
		ev := &domain.BeaconEvent{
			Type:           domain.BeaconProximity,
			DeviceID:       r.DeviceID,
			DistanceMeters: dist,
			Timestamp:      r.Timestamp.Unix(),
		}
		if err := e.publisher.PublishBeaconEvent(ctx, ev); err != nil {
			e.logger.Error("publish beacon proximity", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// closestLocked picks by highest RSSI rather than estimated distance; RSSI
// is the raw, less-noisy signal. Caller holds e.mu.
func (e *BeaconEstimator) closestLocked() (domain.BeaconRecord, bool) {
	var best domain.BeaconRecord
	found := false
	for _, rec := range e.records {
		if !found || rec.RSSI > best.RSSI {
			best = rec
			found = true
		}
	}
	return best, found
}

// ClosestDevice returns the strongest-signal record, or false when the
// registry is empty.
func (e *BeaconEstimator) ClosestDevice() (domain.BeaconRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closestLocked()
}

// DevicesWithinRange returns records whose estimated distance is at most
// maxDistance meters.
func (e *BeaconEstimator) DevicesWithinRange(maxDistance float64) []domain.BeaconRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []domain.BeaconRecord
	for _, rec := range e.records {
		if rec.EstimatedDistanceMeters <= maxDistance {
			out = append(out, rec)
		}
	}
	return out
}

// Devices returns a snapshot of the registry.
func (e *BeaconEstimator) Devices() []domain.BeaconRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.BeaconRecord, 0, len(e.records))
	for _, rec := range e.records {
		out = append(out, rec)
	}
	return out
}

// PruneOlderThan drops records not seen since the cutoff and returns how
// many were removed. Records are never dropped on their own; pruning is the
// caller's policy.
func (e *BeaconEstimator) PruneOlderThan(cutoff time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for id, rec := range e.records {
		if rec.LastSeen.Before(cutoff) {
			delete(e.records, id)
			n++
		}
	}
	if _, ok := e.records[e.closestID]; !ok {
		closest, _ := e.closestLocked()
		e.closestID = closest.DeviceID
	}
	return n
}
