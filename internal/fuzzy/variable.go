package fuzzy

import "fmt"

// Term is an antecedent linguistic term. Both inputs (error and
// error-rate) share the same closed set of terms.
type Term uint8

const (
	Negative Term = iota
	Zero
	Positive
	numTerms
)

// Terms lists all antecedent terms in index order.
var Terms = [numTerms]Term{Negative, Zero, Positive}

func (t Term) String() string {
	switch t {
	case Negative:
		return "negative"
	case Zero:
		return "zero"
	case Positive:
		return "positive"
	default:
		return fmt.Sprintf("term(%d)", uint8(t))
	}
}

// Action is a consequent linguistic term, doubling as the actuation
// label reported per step. The zero value is NoChange.
type Action uint8

const (
	NoChange Action = iota
	Heater
	Cooler
	numActions
)

// Actions lists all consequent terms in index order.
var Actions = [numActions]Action{NoChange, Heater, Cooler}

func (a Action) String() string {
	switch a {
	case NoChange:
		return "no_change"
	case Heater:
		return "heater"
	case Cooler:
		return "cooler"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// ParseAction maps an actuation label back to its Action.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if a.String() == s {
			return a, nil
		}
	}
	return NoChange, fmt.Errorf("fuzzy: unknown action %q", s)
}

// Variable is an antecedent linguistic variable: one membership
// function per Term over a shared domain.
type Variable struct {
	name    string
	terms   [numTerms]MembershipFunction
	defined [numTerms]bool
}

// NewVariable creates an empty antecedent variable.
func NewVariable(name string) *Variable {
	return &Variable{name: name}
}

func (v *Variable) Name() string { return v.name }

// Define registers the membership function for a term. Redefining a
// term overwrites it. Configuration-time only.
func (v *Variable) Define(term Term, points ...float64) error {
	f, err := NewMembershipFunction(points)
	if err != nil {
		return &DefinitionError{Variable: v.name, Term: term.String(), Wrapped: err}
	}
	v.terms[term] = f
	v.defined[term] = true
	return nil
}

// Degree evaluates one term's membership degree at x.
func (v *Variable) Degree(term Term, x float64) float64 {
	return v.terms[term].Degree(x)
}

// Degrees fuzzifies x against every term.
func (v *Variable) Degrees(x float64) [numTerms]float64 {
	var d [numTerms]float64
	for _, t := range Terms {
		d[t] = v.terms[t].Degree(x)
	}
	return d
}

func (v *Variable) complete() bool {
	for _, ok := range v.defined {
		if !ok {
			return false
		}
	}
	return true
}

// OutputVariable is the consequent linguistic variable: one membership
// function per Action.
type OutputVariable struct {
	name    string
	terms   [numActions]MembershipFunction
	defined [numActions]bool
}

// NewOutputVariable creates an empty consequent variable.
func NewOutputVariable(name string) *OutputVariable {
	return &OutputVariable{name: name}
}

func (v *OutputVariable) Name() string { return v.name }

// Define registers the membership function for an action term.
// Redefining overwrites. Configuration-time only.
func (v *OutputVariable) Define(action Action, points ...float64) error {
	f, err := NewMembershipFunction(points)
	if err != nil {
		return &DefinitionError{Variable: v.name, Term: action.String(), Wrapped: err}
	}
	v.terms[action] = f
	v.defined[action] = true
	return nil
}

// Degree evaluates one action term's membership degree at x.
func (v *OutputVariable) Degree(action Action, x float64) float64 {
	return v.terms[action].Degree(x)
}

func (v *OutputVariable) complete() bool {
	for _, ok := range v.defined {
		if !ok {
			return false
		}
	}
	return true
}
