package domain

import "time"

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Location is one sample from a location source (GPS watch or simulator).
// Samples are immutable once created. Accuracy, speed and battery are
// optional; nil means the source did not report them.
type Location struct {
	Lat            float64   `json:"latitude"`
	Lon            float64   `json:"longitude"`
	Timestamp      time.Time `json:"timestamp"`
	AccuracyMeters *float64  `json:"accuracy_meters,omitempty"`
	SpeedKmh       *float64  `json:"speed_kmh,omitempty"`
	BatteryPct     *float64  `json:"battery_pct,omitempty"`
}

func (l Location) Coordinate() Coordinate {
	return Coordinate{Lat: l.Lat, Lon: l.Lon}
}

type PatientLocation struct {
	PatientID string   `json:"patient_id"`
	Location  Location `json:"location"`
	// Wandering is set by the location source (scenario or geofence logic),
	// never derived from the sample itself.
	Wandering bool `json:"wandering,omitempty"`
}

type Patient struct {
	PatientID string `json:"patient_id"`
}

type HistoryQuery struct {
	PatientID string
	Start     time.Time
	End       time.Time
}
