package schedule

import "math"

// Geometric implements a continuously compounding decay of the kind
// commonly used for learning rates: every steps further steps
// multiply the value by rate.
//
//	Value(step) = initial * rate^(step / steps)
type Geometric struct {
	initial float64
	steps   float64
	rate    float64
}

// NewGeometric returns a new Geometric schedule starting at initial
// and multiplying by rate every steps steps.
func NewGeometric(initial, steps, rate float64) Geometric {
	return Geometric{
		initial: initial,
		steps:   steps,
		rate:    rate,
	}
}

// Value returns the scheduled value at step.
func (g Geometric) Value(step float64) float64 {
	return g.initial * math.Pow(g.rate, step/g.steps)
}
