// Package fuzzy implements a two-antecedent, one-consequent Mamdani
// inference engine for thermal regulation.
//
// The package defines the building blocks of the controller:
//
//   - [MembershipFunction]: triangular or trapezoidal fuzzy set
//   - [Variable]: antecedent linguistic variable over the closed [Term] enum
//   - [OutputVariable]: consequent variable over the closed [Action] enum
//   - [Engine]: fuzzification, rule evaluation, aggregation and
//     centroid defuzzification over a sampled output universe
//
// # Example
//
//	errVar := fuzzy.NewVariable("error")
//	errVar.Define(fuzzy.Zero, -2, 0, 2)
//	...
//	eng, _ := fuzzy.NewEngine(errVar, rateVar, outVar, fuzzy.DefaultRules(), fuzzy.DefaultConfig())
//	res := eng.Infer(currentError, changeInError)
//
// # Thread Safety
//
// Variables are mutable only through Define, a configuration-time
// operation. Engine instances are immutable after construction and safe
// for concurrent Infer calls.
package fuzzy
