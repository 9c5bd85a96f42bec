// Package simulator drives the evaluation pipeline with deterministic,
// scripted location samples in place of a live GPS source.
package simulator

import (
	"time"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
)

// Clock supplies the current time. Injected so a run is reproducible in
// tests without real elapsed time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// Phase is the run's position in the scripted walk.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseNormal
	PhaseWandering
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseNormal:
		return "normal"
	case PhaseWandering:
		return "wandering"
	case PhaseCompleted:
		return "completed"
	}
	return "unknown"
}

// Tick is the output of one step: exactly one location sample, shaped like
// a real one so downstream consumers cannot tell the difference.
type Tick struct {
	Location  domain.PatientLocation
	Phase     Phase
	SideAlert *domain.SafetyStatus
}

// Run holds the mutable cursor state over an immutable Scenario.
type Run struct {
	scenario *Scenario
	clock    Clock

	phase       Phase
	index       int
	loopIndex   int
	loopsDone   int
	wanderStart time.Time
	alertsFired int
}

func NewRun(sc *Scenario, clock Clock) (*Run, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Run{scenario: sc, clock: clock, phase: PhaseIdle}, nil
}

func (r *Run) Phase() Phase { return r.phase }
func (r *Run) Index() int   { return r.index }

// Start moves an idle run to the normal path with all cursors reset.
// Starting a non-idle run is a no-op.
func (r *Run) Start() {
	if r.phase != PhaseIdle {
		return
	}
	r.phase = PhaseNormal
	r.index = 0
	r.loopIndex = 0
	r.loopsDone = 0
	r.alertsFired = 0
}

// Stop returns the run to idle from any phase.
func (r *Run) Stop() {
	r.phase = PhaseIdle
}

// Step advances the walk by one tick and emits one sample stamped with the
// clock's current time. It returns false when the run is idle or completed.
func (r *Run) Step() (Tick, bool) {
	switch r.phase {
	case PhaseNormal:
		return r.stepNormal(), true
	case PhaseWandering:
		return r.stepWandering(), true
	default:
		return Tick{}, false
	}
}

func (r *Run) stepNormal() Tick {
	point := r.scenario.Waypoints[r.index]
	tick := Tick{Location: r.sample(point, false), Phase: PhaseNormal}

	if r.index == r.scenario.DeviationIndex {
		r.phase = PhaseWandering
		r.loopIndex = 0
		r.loopsDone = 0
		r.alertsFired = 0
		r.wanderStart = r.clock.Now()
		return tick
	}

	r.index++
	if r.index >= len(r.scenario.Waypoints) {
		r.phase = PhaseCompleted
	}
	return tick
}

func (r *Run) stepWandering() Tick {
	point := r.scenario.WanderingLoop[r.loopIndex]
	tick := Tick{Location: r.sample(point, true), Phase: PhaseWandering}

	elapsed := r.clock.Now().Sub(r.wanderStart)
	for r.alertsFired < len(r.scenario.SideAlerts) && r.scenario.SideAlerts[r.alertsFired].After <= elapsed {
		status := r.scenario.SideAlerts[r.alertsFired].Status
		tick.SideAlert = &status
		r.alertsFired++
	}

	r.loopIndex++
	if r.loopIndex >= len(r.scenario.WanderingLoop) {
		r.loopIndex = 0
		r.loopsDone++
		if r.scenario.ResumeAfterLoops > 0 && r.loopsDone >= r.scenario.ResumeAfterLoops {
			r.phase = PhaseNormal
			r.index = r.scenario.DeviationIndex + 1
			if r.index >= len(r.scenario.Waypoints) {
				r.phase = PhaseCompleted
			}
		}
	}
	return tick
}

func (r *Run) sample(p domain.Coordinate, wandering bool) domain.PatientLocation {
	return domain.PatientLocation{
		PatientID: r.scenario.PatientID,
		Location: domain.Location{
			Lat:       p.Lat,
			Lon:       p.Lon,
			Timestamp: r.clock.Now(),
		},
		Wandering: wandering,
	}
}
