// Package expreplay implements experience replay for training deep Q
// agents.
//
// An experience replay buffer holds the transitions an agent has
// experienced so far, overwriting the oldest once full, and hands back
// uniformly sampled minibatches to train on. Sampling past experience
// in place of the latest transition breaks the correlation between
// consecutive updates.
package expreplay

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/godqn/trainparam"
	"github.com/samuelfneumann/godqn/utils/intutils"
)

// Transition packages a single step of agent-environment interaction:
// the agent took Action in State, receiving Reward and ending up in
// NextState. Done records whether NextState ended the episode.
type Transition struct {
	State     mat.Vector
	Action    int
	Reward    float64
	Done      bool
	NextState mat.Vector
}

// Config implements a specific configuration of an ExpReplay buffer
type Config struct {
	MaxReplayCapacity int // Transitions held before the oldest is dropped
	MinReplayCapacity int // Transitions required before sampling starts
	SampleSize        int // Transitions per sampled minibatch
	FeatureSize       int // Length of state observation vectors
}

// ConfigFrom returns the replay buffer configuration that a
// TrainingParam describes: BufferSize transitions at most,
// MinObservation transitions before sampling starts, and minibatches
// of MinibatchSize. The feature size is the one quantity the
// parameters do not carry; it comes from the environment.
func ConfigFrom(t *trainparam.TrainingParam, featureSize int) Config {
	return Config{
		MaxReplayCapacity: t.BufferSize,
		MinReplayCapacity: t.MinObservation,
		SampleSize:        t.MinibatchSize,
		FeatureSize:       featureSize,
	}
}

// Create creates and returns the ExpReplay buffer with the specified
// Config.
func (c Config) Create(seed uint64) (*ExpReplay, error) {
	return New(c, seed)
}

// ExpReplay is a fixed capacity store of the most recent transitions,
// sampled uniformly at random in minibatches. Once the buffer is full,
// each added transition overwrites the oldest one.
type ExpReplay struct {
	stateCache     []float64
	actionCache    []int
	rewardCache    []float64
	doneCache      []float64
	nextStateCache []float64

	// position is the index the next transition lands at; size is the
	// number of transitions currently held
	position int
	size     int

	minCapacity int
	maxCapacity int
	batchSize   int
	featureSize int

	rng *rand.Rand
}

// New creates and returns a new ExpReplay buffer described by config.
// The effective minimum capacity is the larger of MinReplayCapacity
// and SampleSize so that sampled minibatches are never short.
//
// Pixel observations should be flattened before adding to the buffer.
func New(config Config, seed uint64) (*ExpReplay, error) {
	if config.MaxReplayCapacity < 1 {
		return nil, fmt.Errorf("new: max capacity must be >= 1")
	}
	if config.SampleSize < 1 {
		return nil, fmt.Errorf("new: sample size must be >= 1")
	}
	if config.SampleSize > config.MaxReplayCapacity {
		return nil, fmt.Errorf("new: cannot have sample size (%v) > max "+
			"buffer capacity (%v)", config.SampleSize,
			config.MaxReplayCapacity)
	}
	if config.FeatureSize < 1 {
		return nil, fmt.Errorf("new: feature size must be >= 1")
	}

	return &ExpReplay{
		stateCache:     make([]float64, config.MaxReplayCapacity*config.FeatureSize),
		actionCache:    make([]int, config.MaxReplayCapacity),
		rewardCache:    make([]float64, config.MaxReplayCapacity),
		doneCache:      make([]float64, config.MaxReplayCapacity),
		nextStateCache: make([]float64, config.MaxReplayCapacity*config.FeatureSize),

		minCapacity: intutils.Max(config.MinReplayCapacity, config.SampleSize),
		maxCapacity: config.MaxReplayCapacity,
		batchSize:   config.SampleSize,
		featureSize: config.FeatureSize,

		rng: rand.New(rand.NewSource(seed)),
	}, nil
}

// Add adds a transition to the buffer, dropping the oldest held
// transition if the buffer is full.
func (e *ExpReplay) Add(t Transition) error {
	if t.State == nil || t.NextState == nil {
		return fmt.Errorf("add: transition missing state vectors")
	}
	if t.State.Len() != e.featureSize || t.NextState.Len() != e.featureSize {
		return fmt.Errorf("add: invalid feature size \n\twant(%v) "+
			"\n\thave(%v)", e.featureSize, t.State.Len())
	}

	index := e.position
	e.position = (e.position + 1) % e.maxCapacity
	if e.size < e.maxCapacity {
		e.size++
	}

	stateInd := index * e.featureSize
	for i := 0; i < e.featureSize; i++ {
		e.stateCache[stateInd+i] = t.State.AtVec(i)
		e.nextStateCache[stateInd+i] = t.NextState.AtVec(i)
	}

	e.actionCache[index] = t.Action
	e.rewardCache[index] = t.Reward
	if t.Done {
		e.doneCache[index] = 1.0
	} else {
		e.doneCache[index] = 0.0
	}
	return nil
}

// Sample samples and returns a minibatch of transitions from the
// buffer. States and next states are returned in row major batch
// layout, one row of feature size per transition; actions, rewards and
// done flags line up by row. Done flags are 1.0 on transitions that
// ended their episode and 0.0 elsewhere, ready to gate a bootstrapped
// update target.
func (e *ExpReplay) Sample() (states []float64, actions []int, rewards,
	dones, nextStates []float64, err error) {
	if e.size == 0 {
		err = &ExpReplayError{
			Op:  "sample",
			Err: errEmptyCache,
		}
		return nil, nil, nil, nil, nil, err
	}
	if e.size < e.minCapacity {
		err = &ExpReplayError{
			Op:  "sample",
			Err: errInsufficientSamples,
		}
		return nil, nil, nil, nil, nil, err
	}

	states = make([]float64, e.batchSize*e.featureSize)
	nextStates = make([]float64, e.batchSize*e.featureSize)
	actions = make([]int, e.batchSize)
	rewards = make([]float64, e.batchSize)
	dones = make([]float64, e.batchSize)

	for i := 0; i < e.batchSize; i++ {
		index := e.rng.Intn(e.size)

		batchStart := i * e.featureSize
		expStart := index * e.featureSize
		copy(states[batchStart:batchStart+e.featureSize],
			e.stateCache[expStart:expStart+e.featureSize])
		copy(nextStates[batchStart:batchStart+e.featureSize],
			e.nextStateCache[expStart:expStart+e.featureSize])

		actions[i] = e.actionCache[index]
		rewards[i] = e.rewardCache[index]
		dones[i] = e.doneCache[index]
	}

	return states, actions, rewards, dones, nextStates, nil
}

// Capacity returns the current number of samples in the buffer
func (e *ExpReplay) Capacity() int {
	return e.size
}

// MaxCapacity returns the maximum allowable samples in the buffer
func (e *ExpReplay) MaxCapacity() int {
	return e.maxCapacity
}

// MinCapacity returns the number of samples required to be in the
// buffer before the buffer can be sampled
func (e *ExpReplay) MinCapacity() int {
	return e.minCapacity
}

// BatchSize returns the number of samples returned by Sample()
func (e *ExpReplay) BatchSize() int {
	return e.batchSize
}
