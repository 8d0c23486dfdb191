package fuzzy

import (
	"fmt"
	"math"
)

// RuleMatrix maps an (error term, error-rate term) pair to the
// consequent action: rules[errorTerm][rateTerm].
type RuleMatrix [numTerms][numTerms]Action

// DefaultRules returns the controller's rule table. The positive-error
// and negative-error rows fire heater and cooler regardless of the rate
// term; only the zero-error row discriminates by rate. The asymmetry is
// kept as observed plant-tuning behavior.
func DefaultRules() RuleMatrix {
	var m RuleMatrix
	for _, rate := range Terms {
		m[Positive][rate] = Heater
		m[Negative][rate] = Cooler
	}
	m[Zero][Negative] = Heater
	m[Zero][Zero] = NoChange
	m[Zero][Positive] = Cooler
	return m
}

// Config bounds and samples the output universe of discourse.
type Config struct {
	UniverseMin float64
	UniverseMax float64
	Samples     int
}

func DefaultConfig() Config {
	return Config{
		UniverseMin: -100,
		UniverseMax: 100,
		Samples:     200,
	}
}

// Result is the outcome of one inference.
//
// Degenerate marks the all-zero aggregation case: no rule fired with
// nonzero strength anywhere, Crisp is meaningless and the caller should
// retain its previous crisp output and report no_change.
type Result struct {
	Crisp       float64
	Aggregation []float64
	Degenerate  bool
}

// Engine performs Mamdani inference over two antecedent variables and
// one consequent variable. Immutable after construction.
type Engine struct {
	errVar  *Variable
	rateVar *Variable
	outVar  *OutputVariable
	rules   RuleMatrix

	universe []float64
	curves   [numActions][]float64
}

// NewEngine validates the variables and precomputes the sampled
// consequent curves over the output universe.
func NewEngine(errVar, rateVar *Variable, outVar *OutputVariable, rules RuleMatrix, cfg Config) (*Engine, error) {
	if cfg.Samples < 2 || cfg.UniverseMax <= cfg.UniverseMin {
		return nil, fmt.Errorf("%w: [%g, %g] with %d samples",
			ErrUniverseBounds, cfg.UniverseMin, cfg.UniverseMax, cfg.Samples)
	}
	for _, v := range []*Variable{errVar, rateVar} {
		if !v.complete() {
			return nil, fmt.Errorf("%w: %s", ErrIncompleteVariable, v.Name())
		}
	}
	if !outVar.complete() {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteVariable, outVar.Name())
	}

	e := &Engine{
		errVar:   errVar,
		rateVar:  rateVar,
		outVar:   outVar,
		rules:    rules,
		universe: linspace(cfg.UniverseMin, cfg.UniverseMax, cfg.Samples),
	}
	for _, a := range Actions {
		curve := make([]float64, len(e.universe))
		for i, x := range e.universe {
			curve[i] = outVar.Degree(a, x)
		}
		e.curves[a] = curve
	}
	return e, nil
}

// Infer runs one Mamdani inference: fuzzify both inputs, clip each
// rule's consequent curve at its firing strength, aggregate by
// pointwise maximum, and defuzzify by centroid rounded to 2 decimals.
func (e *Engine) Infer(currentError, changeInError float64) Result {
	errDeg := e.errVar.Degrees(currentError)
	rateDeg := e.rateVar.Degrees(changeInError)

	agg := make([]float64, len(e.universe))
	for _, et := range Terms {
		for _, rt := range Terms {
			strength := math.Min(errDeg[et], rateDeg[rt])
			if strength == 0 {
				continue
			}
			curve := e.curves[e.rules[et][rt]]
			for i := range agg {
				if s := math.Min(curve[i], strength); s > agg[i] {
					agg[i] = s
				}
			}
		}
	}

	var num, den float64
	for i, x := range e.universe {
		num += agg[i] * x
		den += agg[i]
	}
	if den == 0 {
		return Result{Aggregation: agg, Degenerate: true}
	}
	return Result{Crisp: round2(num / den), Aggregation: agg}
}

// Universe returns a copy of the sampled output domain.
func (e *Engine) Universe() []float64 {
	u := make([]float64, len(e.universe))
	copy(u, e.universe)
	return u
}

// Curve returns a copy of the static consequent curve for an action,
// sampled over the universe. Exposed for diagnostics and plotting.
func (e *Engine) Curve(a Action) []float64 {
	c := make([]float64, len(e.curves[a]))
	copy(c, e.curves[a])
	return c
}

// linspace samples n points over [min, max], endpoints included.
func linspace(min, max float64, n int) []float64 {
	pts := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range pts {
		pts[i] = min + float64(i)*step
	}
	return pts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
