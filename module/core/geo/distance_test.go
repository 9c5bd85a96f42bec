package geo

import (
	"testing"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
)

func TestDistanceMeters_SamePoint(t *testing.T) {
	p := domain.Coordinate{Lat: 24.8066, Lon: 120.9686}
	if d := DistanceMeters(p, p); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	a := domain.Coordinate{Lat: 24.8066, Lon: 120.9686}
	b := domain.Coordinate{Lat: 24.8100, Lon: 120.9750}
	if DistanceMeters(a, b) != DistanceMeters(b, a) {
		t.Error("expected symmetric distance")
	}
}

func TestDistanceMeters_KnownDistance(t *testing.T) {
	// downtown Hsinchu to a point ~750m north-east
	a := domain.Coordinate{Lat: 24.8066, Lon: 120.9686}
	b := domain.Coordinate{Lat: 24.8100, Lon: 120.9750}
	d := DistanceMeters(a, b)
	if d < 600 || d > 800 {
		t.Errorf("expected ~750m, got %f", d)
	}
}

func TestDistanceMeters_NeverNegative(t *testing.T) {
	points := []domain.Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 90, Lon: 0},
		{Lat: -90, Lon: 0},
		{Lat: 24.8066, Lon: 120.9686},
		{Lat: -33.8688, Lon: 151.2093},
	}
	for _, a := range points {
		for _, b := range points {
			if d := DistanceMeters(a, b); d < 0 {
				t.Errorf("negative distance between %v and %v: %f", a, b, d)
			}
		}
	}
}
