package simulator

import (
	"fmt"
	"time"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
)

// SideAlert is a scenario-authoring convenience: a status escalation fired
// a fixed delay after the run enters the wandering phase, so caregiver
// alert handling can be exercised without waiting out the real staleness
// thresholds.
type SideAlert struct {
	After  time.Duration       `json:"after"`
	Status domain.SafetyStatus `json:"status"`
}

// Scenario is an immutable scripted walk: a normal path that may deviate
// into an aimless loop at a fixed waypoint.
type Scenario struct {
	Name      string              `json:"name"`
	PatientID string              `json:"patient_id"`
	Waypoints []domain.Coordinate `json:"waypoints"`
	// DeviationIndex is the waypoint at which the walk deviates into the
	// wandering loop. Negative means the walk completes normally.
	DeviationIndex int                 `json:"deviation_index"`
	WanderingLoop  []domain.Coordinate `json:"wandering_loop"`
	// ResumeAfterLoops resumes the normal path after this many full loops.
	// Zero means wander until stopped.
	ResumeAfterLoops int         `json:"resume_after_loops"`
	SideAlerts       []SideAlert `json:"side_alerts"`
}

func (s *Scenario) Validate() error {
	if len(s.Waypoints) == 0 {
		return fmt.Errorf("waypoints: required")
	}
	if s.DeviationIndex >= len(s.Waypoints) {
		return fmt.Errorf("deviation_index: out of range")
	}
	if s.DeviationIndex >= 0 && len(s.WanderingLoop) == 0 {
		return fmt.Errorf("wandering_loop: required when deviation_index is set")
	}
	for i := 1; i < len(s.SideAlerts); i++ {
		if s.SideAlerts[i].After < s.SideAlerts[i-1].After {
			return fmt.Errorf("side_alerts: must be ordered by delay")
		}
	}
	return nil
}

// HsinchuDemo walks from downtown Hsinchu toward the east gate, deviates
// into a tight loop two waypoints in, and escalates after 3s and 6s of
// simulated wandering.
func HsinchuDemo() *Scenario {
	return &Scenario{
		Name:      "hsinchu-demo",
		PatientID: "demo-patient",
		Waypoints: []domain.Coordinate{
			{Lat: 24.8066, Lon: 120.9686},
			{Lat: 24.8071, Lon: 120.9695},
			{Lat: 24.8076, Lon: 120.9705},
			{Lat: 24.8081, Lon: 120.9715},
			{Lat: 24.8086, Lon: 120.9725},
		},
		DeviationIndex: 2,
		WanderingLoop: []domain.Coordinate{
			{Lat: 24.8076, Lon: 120.9705},
			{Lat: 24.8077, Lon: 120.9707},
			{Lat: 24.8075, Lon: 120.9708},
			{Lat: 24.8074, Lon: 120.9706},
		},
		SideAlerts: []SideAlert{
			{After: 3 * time.Second, Status: domain.StatusWarning},
			{After: 6 * time.Second, Status: domain.StatusDanger},
		},
	}
}
