// Package policy implements action selection policies for agents with
// discrete actions.
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/godqn/utils/floatutils"
)

// EGreedy implements an ε-greedy policy over action values computed
// elsewhere, usually by a value function approximator. With
// probability ε an action is selected at random, otherwise the action
// of maximal value is selected, ties broken uniformly.
//
// The policy does not own the value function: each selection is made
// from a vector of action values handed to SelectAction. A training
// loop decaying its exploration feeds the current ε through SetEpsilon
// before selecting.
type EGreedy struct {
	epsilon float64
	seed    rand.Source // Seed for random number generation
}

// NewEGreedy constructs a new EGreedy policy, where e=epsilon is the
// probability with which a random action is selected. The value is
// clipped to [0, 1].
func NewEGreedy(e float64, seed uint64) *EGreedy {
	source := rand.NewSource(seed)

	return &EGreedy{
		epsilon: floatutils.Clip(e, 0.0, 1.0),
		seed:    source,
	}
}

// Epsilon returns the probability with which the policy selects an
// action at random
func (p *EGreedy) Epsilon() float64 {
	return p.epsilon
}

// SetEpsilon sets the probability with which the policy selects an
// action at random, clipping to [0, 1]
func (p *EGreedy) SetEpsilon(e float64) {
	p.epsilon = floatutils.Clip(e, 0.0, 1.0)
}

// SelectAction selects an action from an ε-greedy policy over the
// given action values. The returned action indexes actionValues.
func (p *EGreedy) SelectAction(actionValues mat.Vector) (int, error) {
	numActions := actionValues.Len()
	if numActions == 0 {
		return 0, fmt.Errorf("selectAction: no action values")
	}

	// Calculate the ε probability of choosing any action at random
	prob := p.epsilon / float64(numActions)
	actionProbabilities := make([]float64, numActions)
	for i := 0; i < numActions; i++ {
		actionProbabilities[i] = prob
	}

	// Adjust the probability of choosing the greedy actions, sharing
	// the greedy probability between maximal actions so that ties are
	// broken uniformly
	_, greedyActions := floatutils.MaxSlice(rawValues(actionValues))
	for _, action := range greedyActions {
		actionProbabilities[action] += (1.0 - p.epsilon) /
			float64(len(greedyActions))
	}

	// Construct a categorical distribution over actions using action
	// probabilities
	dist := distuv.NewCategorical(actionProbabilities, p.seed)

	return int(dist.Rand()), nil
}

// rawValues returns the values of a vector as a slice
func rawValues(values mat.Vector) []float64 {
	raw := make([]float64, values.Len())
	for i := range raw {
		raw[i] = values.AtVec(i)
	}
	return raw
}
