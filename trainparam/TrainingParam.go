// Package trainparam stores, schedules and persists the
// hyperparameters that govern the training of a deep Q agent.
//
// A TrainingParam gathers everything a training loop consults while
// running: replay buffer sizing, the epsilon-greedy exploration
// schedule, the learning rate schedule, episode length bounds, and
// the cadences at which the model is trained, checkpointed and
// summarized. The container performs no training itself. It hands out
// values and small derived quantities to whatever loop owns it, and
// round trips through JSON so that a run can be reproduced later.
package trainparam

import (
	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/godqn/schedule"
)

// tolFloatEqual is the absolute tolerance under which two float
// attributes compare equal
const tolFloatEqual float64 = 1.0e-8

// MaxIterFn maps a count of consecutive successful episodes to the
// maximum number of steps the next episode may run for.
type MaxIterFn func(nbSuccess int) int

// DefaultMaxIterFn allows episodes one more step for every ten
// consecutive successes, truncating the fraction in between.
func DefaultMaxIterFn(nbSuccess int) int {
	return int(float64(nbSuccess) * 0.1)
}

// TrainingParam stores the hyperparameters of a single training run.
//
// Fields are exported so that the training loop owning the container
// can read them directly. The exploration bounds are the exception:
// InitialEpsilon and FinalEpsilon feed a derived decay coefficient,
// so changing them after construction should go through SetEpsilon to
// keep the coefficient in sync.
type TrainingParam struct {
	// Experience replay
	BufferSize     int // replay buffer capacity
	MinibatchSize  int // samples per training update
	UpdateFreq     int // steps between training updates
	MinObservation int // observations gathered before training starts

	// Epsilon-greedy exploration, decaying from InitialEpsilon to
	// FinalEpsilon over StepForFinalEpsilon steps
	InitialEpsilon      float64
	FinalEpsilon        float64
	StepForFinalEpsilon float64

	// Learning rate schedule: starting from Lr, multiply by
	// LrDecayRate every LrDecaySteps steps
	Lr           float64
	LrDecaySteps float64
	LrDecayRate  float64

	// DiscountFactor is the reward discount, often written gamma.
	DiscountFactor float64

	// Tau is the soft target network update coefficient. After a
	// training update the target network weights are blended as
	// Tau*model + (1-Tau)*target.
	Tau float64

	// MinIter and MaxIter bound the number of steps an episode may
	// run for.
	MinIter int
	MaxIter int

	// Cadence of training summaries and of model checkpoints
	UpdateTensorboardFreq int
	SaveModelEach         int

	// NumFrames is the number of successive observation frames
	// composing one network input.
	NumFrames int

	// LastStep is the most recent step reported through TellStep or
	// GetNextEpsilon. It is runtime state rather than configuration
	// and is never persisted.
	LastStep int

	expFacto  float64 // decay coefficient derived from the bounds
	maxIterFn MaxIterFn
}

// New returns a TrainingParam holding the default hyperparameters: a
// 40000 sample replay buffer trained on every 256 steps with
// minibatches of 64, and exploration decaying from 0.4 to roughly one
// random action per week of five minute steps.
func New() *TrainingParam {
	t := &TrainingParam{
		BufferSize:     40000,
		MinibatchSize:  64,
		UpdateFreq:     256,
		MinObservation: 5000,

		InitialEpsilon:      0.4,
		FinalEpsilon:        1.0 / (7 * 288),
		StepForFinalEpsilon: 100000,

		Lr:           1.0e-4,
		LrDecaySteps: 10000,
		LrDecayRate:  0.999,

		DiscountFactor: 0.99,
		Tau:            0.1,

		MinIter: 50,
		MaxIter: 8064, // one month of five minute steps

		UpdateTensorboardFreq: 1000,
		SaveModelEach:         10000,

		NumFrames: 1,
	}
	t.expFacto = schedule.Coefficient(t.InitialEpsilon, t.FinalEpsilon)
	t.maxIterFn = DefaultMaxIterFn
	return t
}

// SetEpsilon sets the exploration bounds and rederives the decay
// coefficient consulted by GetNextEpsilon. Assigning InitialEpsilon
// or FinalEpsilon directly leaves the coefficient untouched.
func (t *TrainingParam) SetEpsilon(initial, final float64) {
	t.InitialEpsilon = initial
	t.FinalEpsilon = final
	t.expFacto = schedule.Coefficient(initial, final)
}

// TellStep records the training loop's current step. No ordering is
// enforced; the loop is free to jump backwards when restarting.
func (t *TrainingParam) TellStep(currentStep int) {
	t.LastStep = currentStep
}

// GetNextEpsilon records currentStep like TellStep and returns the
// epsilon the exploration policy should use at that step. The value
// decays exponentially from InitialEpsilon to FinalEpsilon over
// StepForFinalEpsilon steps and stays at FinalEpsilon afterwards.
func (t *TrainingParam) GetNextEpsilon(currentStep int) float64 {
	t.LastStep = currentStep
	return schedule.Exponential(float64(currentStep), t.InitialEpsilon,
		t.FinalEpsilon, t.StepForFinalEpsilon, t.expFacto)
}

// DoTrain returns whether the training loop should run a training
// update at the last reported step. Updates happen once every
// UpdateFreq steps. An UpdateFreq of 0 yields an error satisfying
// IsInvalidConfiguration.
func (t *TrainingParam) DoTrain() (bool, error) {
	if t.UpdateFreq == 0 {
		return false, &ParamError{
			Op:   "doTrain",
			Info: "update frequency is 0",
			Err:  errInvalidConfiguration,
		}
	}
	return t.LastStep%t.UpdateFreq == 0, nil
}

// SetMaxIterFn replaces the policy mapping consecutive successful
// episodes to an episode step budget. A nil fn restores
// DefaultMaxIterFn.
func (t *TrainingParam) SetMaxIterFn(fn MaxIterFn) {
	if fn == nil {
		fn = DefaultMaxIterFn
	}
	t.maxIterFn = fn
}

// NextMaxIter consults the episode length policy with the number of
// consecutive successful episodes so far. The result is not clamped
// to MinIter and MaxIter; callers combine the three as they see fit.
func (t *TrainingParam) NextMaxIter(nbSuccess int) int {
	return t.maxIterFn(nbSuccess)
}

// Equal returns whether t and other agree on every persisted
// attribute, comparing integer attributes exactly and float
// attributes within a small absolute tolerance. Runtime state such as
// LastStep and the episode length policy do not take part.
func (t *TrainingParam) Equal(other *TrainingParam) bool {
	for _, name := range intAttr {
		if t.intAttrValue(name) != other.intAttrValue(name) {
			return false
		}
	}
	for _, name := range floatAttr {
		equal := floats.EqualWithinAbs(t.floatAttrValue(name),
			other.floatAttrValue(name), tolFloatEqual)
		if !equal {
			return false
		}
	}
	return true
}
