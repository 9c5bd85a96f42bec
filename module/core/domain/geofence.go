package domain

import "fmt"

const (
	MinGeofenceRadiusMeters = 10
	MaxGeofenceRadiusMeters = 10000
)

// Geofence is a circular safe zone owned by a caregiver.
type Geofence struct {
	ID           string     `json:"id"`
	PatientID    string     `json:"patient_id"`
	Center       Coordinate `json:"center"`
	RadiusMeters float64    `json:"radius_meters"`
	AlertOnEnter bool       `json:"alert_on_enter"`
	AlertOnExit  bool       `json:"alert_on_exit"`
	Active       bool       `json:"active"`
}

func (g *Geofence) Validate() error {
	if g.PatientID == "" {
		return fmt.Errorf("patient_id: required")
	}
	if g.RadiusMeters < MinGeofenceRadiusMeters || g.RadiusMeters > MaxGeofenceRadiusMeters {
		return fmt.Errorf("radius_meters: must be between %d and %d", MinGeofenceRadiusMeters, MaxGeofenceRadiusMeters)
	}
	if g.Center.Lat < -90 || g.Center.Lat > 90 {
		return fmt.Errorf("center latitude: must be between -90 and 90")
	}
	if g.Center.Lon < -180 || g.Center.Lon > 180 {
		return fmt.Errorf("center longitude: must be between -180 and 180")
	}
	return nil
}

type GeofenceEventType string

const (
	GeofenceEnter GeofenceEventType = "geofence_enter"
	GeofenceExit  GeofenceEventType = "geofence_exit"
)

// GeofenceEvent is emitted when a patient's membership in a zone flips.
type GeofenceEvent struct {
	PatientID  string            `json:"patient_id"`
	GeofenceID string            `json:"geofence_id"`
	Type       GeofenceEventType `json:"type"`
	Location   Location          `json:"location"`
	Timestamp  int64             `json:"timestamp"`
}
