// Package schedule implements deterministic schedules for
// hyperparameters that change over the course of training, such as
// the epsilon of an epsilon-greedy policy or a learning rate.
package schedule

import "math"

// Coefficient returns the decay coefficient ln(initial/final) that
// makes Exponential interpolate from initial at step 0 to final at
// the horizon. When final <= 0 no such coefficient exists and the
// fallback coefficient 1 is returned; Exponential still decays with
// the fallback, but no longer interpolates between the two bounds.
func Coefficient(initial, final float64) float64 {
	if final > 0 {
		return math.Log(initial / final)
	}
	return 1
}

// Exponential returns the value at step of an exponential decay from
// initial toward final:
//
//	initial * exp(-(step / horizon) * facto)
//
// for steps up to the horizon, and final exactly for steps beyond it.
// The facto parameter is the decay coefficient, normally
// Coefficient(initial, final), under which the curve reaches final
// exactly as step reaches the horizon.
//
// Exponential is pure; it is the arithmetic behind the stateful
// epsilon accessors of a TrainingParam.
func Exponential(step, initial, final, horizon, facto float64) float64 {
	if step > horizon {
		return final
	}
	return initial * math.Exp(-(step/horizon)*facto)
}
