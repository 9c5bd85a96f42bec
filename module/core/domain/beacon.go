package domain

import "time"

// BeaconReading is one raw BLE scan callback. Ephemeral; the estimator
// folds it into a BeaconRecord and drops it.
type BeaconReading struct {
	DeviceID         string    `json:"device_id"`
	Name             string    `json:"name"`
	RSSI             int       `json:"rssi"`
	ManufacturerData []byte    `json:"manufacturer_data,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// BeaconRecord is the live registry entry for a discovered tag. Upserted
// (replaced, not merged) on every accepted reading.
type BeaconRecord struct {
	DeviceID                string    `json:"device_id"`
	Name                    string    `json:"name"`
	EstimatedDistanceMeters float64   `json:"estimated_distance_meters"`
	RSSI                    int       `json:"rssi"`
	LastSeen                time.Time `json:"last_seen"`
}

type BeaconEventType string

const (
	// ClosestBeaconChanged fires when the strongest-signal device identity changes.
	ClosestBeaconChanged BeaconEventType = "closest_beacon_changed"
	// BeaconProximity fires when a tag's estimated distance drops under the
	// close threshold; the alerting layer uses it to request a location update.
	BeaconProximity BeaconEventType = "beacon_proximity"
)

type BeaconEvent struct {
	Type           BeaconEventType `json:"type"`
	DeviceID       string          `json:"device_id"`
	DistanceMeters float64         `json:"distance_meters"`
	Timestamp      int64           `json:"timestamp"`
}
