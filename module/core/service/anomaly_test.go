package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
)

type mockStatusCache struct {
	setFn func(ctx context.Context, patientID string, st *domain.PatientStatus) error
	sets  []domain.PatientStatus
}

func (m *mockStatusCache) SetStatus(ctx context.Context, patientID string, st *domain.PatientStatus) error {
	m.sets = append(m.sets, *st)
	if m.setFn != nil {
		return m.setFn(ctx, patientID, st)
	}
	return nil
}

func (m *mockStatusCache) GetStatus(context.Context, string) (*domain.PatientStatus, error) {
	return nil, errors.New("not implemented")
}

func floatP(f float64) *float64 { return &f }

func TestClassify(t *testing.T) {
	now := time.Unix(1715003456, 0)

	tests := []struct {
		name      string
		age       time.Duration
		accuracy  *float64
		wandering bool
		want      domain.SafetyStatus
	}{
		{"fresh sample", 5 * time.Minute, floatP(20), false, domain.StatusSafe},
		{"just under warning", 15 * time.Minute, nil, false, domain.StatusSafe},
		{"stale 20min", 20 * time.Minute, nil, false, domain.StatusWarning},
		{"just under danger", 30 * time.Minute, nil, false, domain.StatusWarning},
		{"stale 31min", 31 * time.Minute, nil, false, domain.StatusDanger},
		{"degraded accuracy", 5 * time.Minute, floatP(150), false, domain.StatusWarning},
		{"accuracy at limit", 5 * time.Minute, floatP(100), false, domain.StatusSafe},
		// staleness outranks accuracy
		{"stale and degraded", 31 * time.Minute, floatP(150), false, domain.StatusDanger},
		{"wandering passthrough", 5 * time.Minute, nil, true, domain.StatusSafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := &domain.Location{
				Lat:            24.8066,
				Lon:            120.9686,
				Timestamp:      now.Add(-tt.age),
				AccuracyMeters: tt.accuracy,
			}
			st := Classify(loc, now, tt.wandering)
			if st.Status != tt.want {
				t.Errorf("Classify() = %s, want %s", st.Status, tt.want)
			}
			if st.IsWandering != tt.wandering {
				t.Errorf("IsWandering = %v, want %v", st.IsWandering, tt.wandering)
			}
			if !st.LastUpdate.Equal(loc.Timestamp) {
				t.Errorf("LastUpdate = %v, want %v", st.LastUpdate, loc.Timestamp)
			}
		})
	}
}

func TestObserve_CachesEverySample(t *testing.T) {
	now := time.Unix(1715003456, 0)
	statusCache := &mockStatusCache{}
	svc := NewAnomalyService(&mockAlertPublisher{}, statusCache, zap.NewNop())
	svc.now = func() time.Time { return now }

	pl := sampleAt(24.8066, 120.9686)
	pl.Location.Timestamp = now.Add(-5 * time.Minute)

	st, err := svc.Observe(context.Background(), pl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Status != domain.StatusSafe {
		t.Errorf("expected safe, got %s", st.Status)
	}
	if len(statusCache.sets) != 1 {
		t.Fatalf("expected 1 cache write, got %d", len(statusCache.sets))
	}
}

func TestObserve_PublishesOnlyOnChange(t *testing.T) {
	now := time.Unix(1715003456, 0)
	pub := &mockAlertPublisher{}
	svc := NewAnomalyService(pub, &mockStatusCache{}, zap.NewNop())
	svc.now = func() time.Time { return now }

	ctx := context.Background()

	fresh := sampleAt(24.8066, 120.9686)
	fresh.Location.Timestamp = now.Add(-5 * time.Minute)

	// first observation establishes the baseline, no publish
	if _, err := svc.Observe(ctx, fresh); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// same classification again, still no publish
	if _, err := svc.Observe(ctx, fresh); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.statusCalls) != 0 {
		t.Fatalf("expected 0 status changes, got %d", len(pub.statusCalls))
	}

	stale := sampleAt(24.8066, 120.9686)
	stale.Location.Timestamp = now.Add(-31 * time.Minute)
	if _, err := svc.Observe(ctx, stale); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pub.statusCalls) != 1 {
		t.Fatalf("expected 1 status change, got %d", len(pub.statusCalls))
	}
	ch := pub.statusCalls[0]
	if ch.Previous != domain.StatusSafe || ch.Current != domain.StatusDanger {
		t.Errorf("expected safe->danger, got %s->%s", ch.Previous, ch.Current)
	}
}

func TestObserve_CacheFailureIsNotFatal(t *testing.T) {
	now := time.Unix(1715003456, 0)
	statusCache := &mockStatusCache{
		setFn: func(_ context.Context, _ string, _ *domain.PatientStatus) error {
			return errors.New("redis down")
		},
	}
	svc := NewAnomalyService(&mockAlertPublisher{}, statusCache, zap.NewNop())
	svc.now = func() time.Time { return now }

	pl := sampleAt(24.8066, 120.9686)
	pl.Location.Timestamp = now
	if _, err := svc.Observe(context.Background(), pl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestObserve_PublishError(t *testing.T) {
	now := time.Unix(1715003456, 0)
	pub := &mockAlertPublisher{
		statusFn: func(_ context.Context, _ *domain.StatusChange) error {
			return errors.New("rabbitmq down")
		},
	}
	svc := NewAnomalyService(pub, &mockStatusCache{}, zap.NewNop())
	svc.now = func() time.Time { return now }

	ctx := context.Background()
	fresh := sampleAt(24.8066, 120.9686)
	fresh.Location.Timestamp = now
	if _, err := svc.Observe(ctx, fresh); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stale := sampleAt(24.8066, 120.9686)
	stale.Location.Timestamp = now.Add(-31 * time.Minute)
	if _, err := svc.Observe(ctx, stale); err == nil {
		t.Fatal("expected error")
	}
}
