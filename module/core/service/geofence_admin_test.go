package service

import (
	"context"
	"testing"
)

type forgetRecorder struct {
	forgotten []string
}

func (f *forgetRecorder) Forget(geofenceID string) {
	f.forgotten = append(f.forgotten, geofenceID)
}

func TestCreate_AssignsID(t *testing.T) {
	svc := NewGeofenceAdminService(&mockGeofenceRepo{}, &forgetRecorder{})

	gf := hsinchuFence()
	gf.ID = ""
	if err := svc.Create(context.Background(), &gf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gf.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestCreate_RejectsInvalidRadius(t *testing.T) {
	svc := NewGeofenceAdminService(&mockGeofenceRepo{}, &forgetRecorder{})

	for _, radius := range []float64{5, 10001, -1} {
		gf := hsinchuFence()
		gf.RadiusMeters = radius
		if err := svc.Create(context.Background(), &gf); err == nil {
			t.Errorf("expected error for radius %f", radius)
		}
	}
}

func TestUpdate_DeactivationForgetsMembership(t *testing.T) {
	rec := &forgetRecorder{}
	svc := NewGeofenceAdminService(&mockGeofenceRepo{}, rec)

	gf := hsinchuFence()
	gf.Active = false
	if err := svc.Update(context.Background(), &gf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.forgotten) != 1 || rec.forgotten[0] != "gf-1" {
		t.Fatalf("expected gf-1 forgotten, got %v", rec.forgotten)
	}
}

func TestUpdate_ActiveKeepsMembership(t *testing.T) {
	rec := &forgetRecorder{}
	svc := NewGeofenceAdminService(&mockGeofenceRepo{}, rec)

	gf := hsinchuFence()
	if err := svc.Update(context.Background(), &gf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.forgotten) != 0 {
		t.Fatalf("expected no forgets, got %v", rec.forgotten)
	}
}

func TestDelete_ForgetsMembership(t *testing.T) {
	rec := &forgetRecorder{}
	svc := NewGeofenceAdminService(&mockGeofenceRepo{}, rec)

	if err := svc.Delete(context.Background(), "gf-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.forgotten) != 1 || rec.forgotten[0] != "gf-1" {
		t.Fatalf("expected gf-1 forgotten, got %v", rec.forgotten)
	}
}
