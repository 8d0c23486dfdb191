// Package loop owns the mutable control state and drives the
// infer → actuate → update-error → record-history cycle, one fixed
// point per step.
package loop

import (
	"github.com/san-kum/fuzzytherm/internal/fuzzy"
	"github.com/san-kum/fuzzytherm/internal/plant"
)

// DefaultHistorySize is the capacity of the temperature history buffer.
const DefaultHistorySize = 50

// State is the controller's mutable bookkeeping. ChangeInError is
// always PreviousError - CurrentError. History holds the most recent
// environment temperatures in chronological order, oldest first, at a
// fixed length.
type State struct {
	Target        float64
	Environment   float64
	PreviousError float64
	CurrentError  float64
	ChangeInError float64
	Crisp         float64
	History       []float64
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := s
	c.History = make([]float64, len(s.History))
	copy(c.History, s.History)
	return c
}

// Telemetry is the per-step snapshot emitted for logging and plotting.
type Telemetry struct {
	Step          int          `json:"step"`
	Target        float64      `json:"target"`
	Environment   float64      `json:"environment"`
	CurrentError  float64      `json:"error"`
	ChangeInError float64      `json:"error_rate"`
	Crisp         float64      `json:"crisp"`
	Action        fuzzy.Action `json:"-"`
}

// Config sets the loop's initial conditions.
type Config struct {
	Target      float64
	Initial     float64
	HistorySize int
}

// Loop ties the inference engine and the plant together around one
// State. Not safe for concurrent use; Run serializes all mutation.
type Loop struct {
	engine *fuzzy.Engine
	plant  *plant.Plant
	cfg    Config
	state  State
	agg    []float64
	step   int
}

func New(engine *fuzzy.Engine, pl *plant.Plant, cfg Config) *Loop {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultHistorySize
	}
	l := &Loop{engine: engine, plant: pl, cfg: cfg}
	l.Reset()
	return l
}

// Reset restores the initial conditions: history pre-filled with the
// initial temperature, previous error zeroed.
func (l *Loop) Reset() {
	history := make([]float64, l.cfg.HistorySize)
	for i := range history {
		history[i] = l.cfg.Initial
	}
	current := l.cfg.Target - l.cfg.Initial
	l.state = State{
		Target:        l.cfg.Target,
		Environment:   l.cfg.Initial,
		CurrentError:  current,
		ChangeInError: -current,
		History:       history,
	}
	l.agg = nil
	l.step = 0
}

// Step executes one control cycle: infer a crisp output from the
// current error and error-rate, actuate the plant, refresh the error
// bookkeeping, and record the temperature history.
//
// On degenerate aggregation the previous crisp output is retained and
// the action is no_change.
func (l *Loop) Step() Telemetry {
	res := l.engine.Infer(l.state.CurrentError, l.state.ChangeInError)
	l.agg = res.Aggregation

	action := fuzzy.NoChange
	if !res.Degenerate {
		l.state.Crisp = res.Crisp
		l.state.Environment, action = l.plant.Apply(l.state.Environment, res.Crisp)
	}

	l.state.PreviousError = l.state.CurrentError
	l.state.CurrentError = l.state.Target - l.state.Environment
	l.state.ChangeInError = l.state.PreviousError - l.state.CurrentError

	copy(l.state.History, l.state.History[1:])
	l.state.History[len(l.state.History)-1] = l.state.Environment

	l.step++
	return Telemetry{
		Step:          l.step,
		Target:        l.state.Target,
		Environment:   l.state.Environment,
		CurrentError:  l.state.CurrentError,
		ChangeInError: l.state.ChangeInError,
		Crisp:         l.state.Crisp,
		Action:        action,
	}
}

// SetTarget replaces the target temperature. Callers must only invoke
// it between steps; Run applies commands at step boundaries.
func (l *Loop) SetTarget(target float64) {
	l.state.Target = target
}

// Snapshot returns a read-only copy of the control state.
func (l *Loop) Snapshot() State {
	return l.state.Clone()
}

// Aggregation returns a copy of the last inference's aggregated output
// curve, or nil before the first step.
func (l *Loop) Aggregation() []float64 {
	if l.agg == nil {
		return nil
	}
	c := make([]float64, len(l.agg))
	copy(c, l.agg)
	return c
}

// Steps reports how many steps have run since the last reset.
func (l *Loop) Steps() int {
	return l.step
}
