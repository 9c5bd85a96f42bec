package domain

import "time"

// SafetyStatus classifies how recent and trustworthy a patient's
// tracking data is.
type SafetyStatus string

const (
	StatusSafe    SafetyStatus = "safe"
	StatusWarning SafetyStatus = "warning"
	StatusDanger  SafetyStatus = "danger"
)

// PatientStatus is derived from the latest location sample and the current
// clock. It carries no history of its own.
type PatientStatus struct {
	Status      SafetyStatus `json:"status"`
	LastUpdate  time.Time    `json:"last_update"`
	IsWandering bool         `json:"is_wandering"`
}

// StatusChange is emitted when a patient's derived status differs from the
// previously observed one.
type StatusChange struct {
	PatientID string       `json:"patient_id"`
	Previous  SafetyStatus `json:"previous"`
	Current   SafetyStatus `json:"current"`
	Timestamp int64        `json:"timestamp"`
}
