// Package experiment implements functionality for training a deep Q
// agent the way a trainparam.TrainingParam describes. A Trainer owns
// the interaction loop between an environment and a learner: it
// selects actions epsilon greedily on the learner's action values,
// stores the experience in a replay buffer, triggers training updates
// and target network blends on the configured cadences, decays the
// learning rate, and hands data to Trackers and Checkpointers along
// the way.
package experiment

import (
	"fmt"
	"log"
	"time"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/progressbar"

	"github.com/samuelfneumann/godqn/expreplay"
	"github.com/samuelfneumann/godqn/policy"
	"github.com/samuelfneumann/godqn/schedule"
	"github.com/samuelfneumann/godqn/trainparam"
	"github.com/samuelfneumann/godqn/utils/intutils"
)

// Environment is the view a Trainer takes of the system an agent acts
// in: episodic, with a fixed number of discrete actions and dense
// feature vector observations.
type Environment interface {
	// Reset starts a new episode and returns its first observation
	Reset() mat.Vector

	// Step takes action in the current state, returning the next
	// observation, the reward, and whether the episode ended
	Step(action int) (mat.Vector, float64, bool, error)

	// NumActions returns the number of discrete actions, which are
	// enumerated from 0
	NumActions() int

	// ObservationSize returns the length of observation vectors
	ObservationSize() int
}

// Learner is the view a Trainer takes of a value based agent: a
// forward pass producing action values, a training update on sampled
// minibatches, and access to the weights of the model and of the
// target network providing update targets. A Learner is Serializable
// so that it can be checkpointed during training.
type Learner interface {
	Serializable

	// QValues returns the estimated value of each action in the state
	// described by obs
	QValues(obs mat.Vector) (mat.Vector, error)

	// Learn performs a single training update on a minibatch in the
	// layout produced by an expreplay.ExpReplay
	Learn(states []float64, actions []int, rewards, dones,
		nextStates []float64) error

	// SetLearnRate replaces the learning rate used by Learn
	SetLearnRate(lr float64)

	// Learnables returns the weights adjusted by Learn.
	// TargetLearnables returns the matching weights of the target
	// network, which the Trainer moves toward the model weights after
	// each update.
	Learnables() []*tensor.Dense
	TargetLearnables() []*tensor.Dense
}

// Trainer runs a Learner against an Environment for a fixed number of
// steps, following the schedules and cadences of a TrainingParam.
//
// Episodes are bounded by a step budget: each episode may run for
// NextMaxIter(consecutive successes) steps, clamped between MinIter
// and MaxIter. An episode that exhausts its budget without the
// environment terminating counts as a success, lengthening later
// budgets; a terminating episode resets the count.
type Trainer struct {
	environment Environment
	learner     Learner
	params      *trainparam.TrainingParam

	behaviour *policy.EGreedy
	replay    *expreplay.ExpReplay
	lrDecay   schedule.Geometric

	trackers      []Tracker
	checkpointers []Checkpointer

	maxSteps    int
	currentStep int
	nbSuccess   int

	showProgress bool
	progress     *progressbar.ProgressBar
}

// NewTrainer returns a Trainer which runs learner against environment
// for maxSteps environment steps under the hyperparameters of params.
// The seed determines action selection and replay sampling. Trackers
// passed here record data generated during the run; more can be added
// later with Register.
func NewTrainer(environment Environment, learner Learner,
	params *trainparam.TrainingParam, maxSteps int, seed uint64,
	trackers ...Tracker) (*Trainer, error) {
	if environment.NumActions() < 1 {
		return nil, fmt.Errorf("newTrainer: environment has no actions")
	}

	replayConfig := expreplay.ConfigFrom(params,
		environment.ObservationSize())
	replay, err := replayConfig.Create(seed)
	if err != nil {
		return nil, fmt.Errorf("newTrainer: could not create replay "+
			"buffer: %v", err)
	}

	return &Trainer{
		environment: environment,
		learner:     learner,
		params:      params,
		behaviour:   policy.NewEGreedy(params.InitialEpsilon, seed),
		replay:      replay,
		lrDecay: schedule.NewGeometric(params.Lr, params.LrDecaySteps,
			params.LrDecayRate),
		trackers: trackers,
		maxSteps: maxSteps,
	}, nil
}

// Register registers a Tracker with the (possibly already running)
// Trainer. Useful to start tracking data only after a specified event.
func (t *Trainer) Register(tracker Tracker) {
	t.trackers = append(t.trackers, tracker)
}

// RegisterCheckpointer registers a Checkpointer, which is offered
// every training step number from then on
func (t *Trainer) RegisterCheckpointer(c Checkpointer) {
	t.checkpointers = append(t.checkpointers, c)
}

// ShowProgress sets whether Run draws a progress bar in the terminal
func (t *Trainer) ShowProgress(show bool) {
	t.showProgress = show
}

// RunEpisode runs a single episode and returns whether the step limit
// of the whole run has been reached
func (t *Trainer) RunEpisode() (bool, error) {
	obs := t.environment.Reset()

	budget := intutils.Clip(t.params.NextMaxIter(t.nbSuccess),
		t.params.MinIter, t.params.MaxIter)
	if budget < 1 {
		return false, fmt.Errorf("runEpisode: episode step budget is "+
			"%v, check the episode iteration bounds", budget)
	}

	done := false
	episodeSteps := 0
	for !done && episodeSteps < budget && t.currentStep < t.maxSteps {
		t.currentStep++
		episodeSteps++

		// Exploration decays on the global step count. Reporting the
		// step here also drives the DoTrain cadence below.
		t.behaviour.SetEpsilon(t.params.GetNextEpsilon(t.currentStep))

		values, err := t.learner.QValues(obs)
		if err != nil {
			return false, fmt.Errorf("runEpisode: could not compute "+
				"action values: %v", err)
		}
		action, err := t.behaviour.SelectAction(values)
		if err != nil {
			return false, fmt.Errorf("runEpisode: could not select "+
				"action: %v", err)
		}

		nextObs, reward, envDone, err := t.environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: could not step "+
				"environment: %v", err)
		}
		done = envDone

		err = t.replay.Add(expreplay.Transition{
			State:     obs,
			Action:    action,
			Reward:    reward,
			Done:      envDone,
			NextState: nextObs,
		})
		if err != nil {
			return false, fmt.Errorf("runEpisode: could not cache "+
				"transition: %v", err)
		}

		t.track(reward, done || episodeSteps >= budget)

		train, err := t.params.DoTrain()
		if err != nil {
			return false, fmt.Errorf("runEpisode: %v", err)
		}
		if train {
			err = t.learn()
			if err != nil {
				return false, fmt.Errorf("runEpisode: %v", err)
			}
		}

		decaySteps := int(t.params.LrDecaySteps)
		if decaySteps > 0 && t.currentStep%decaySteps == 0 {
			t.learner.SetLearnRate(t.lrDecay.Value(float64(t.currentStep)))
		}

		err = t.checkpoint(t.currentStep)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %v", err)
		}

		freq := t.params.UpdateTensorboardFreq
		if freq > 0 && t.currentStep%freq == 0 {
			log.Printf("step %v of %v: ε=%.4f, buffer %v of %v\n",
				t.currentStep, t.maxSteps, t.behaviour.Epsilon(),
				t.replay.Capacity(), t.replay.MaxCapacity())
		}

		if t.progress != nil {
			t.progress.Increment()
		}

		obs = nextObs
	}

	if done {
		t.nbSuccess = 0
	} else if episodeSteps >= budget {
		// Lasting the whole budget without terminating is a success
		t.nbSuccess++
	}

	return t.currentStep >= t.maxSteps, nil
}

// Run runs the Trainer episode by episode until maxSteps environment
// steps have elapsed
func (t *Trainer) Run() error {
	if t.showProgress {
		t.progress = progressbar.NewProgressBar(65, t.maxSteps,
			time.Second, false)
		t.progress.Display()
		defer func() {
			t.progress.Close()
			t.progress = nil
		}()
	}

	ended := false
	for !ended {
		var err error
		ended, err = t.RunEpisode()
		if err != nil {
			return fmt.Errorf("run: %v", err)
		}
	}
	return nil
}

// Save saves the data cached by the Trackers to disk
func (t *Trainer) Save() error {
	for _, tracker := range t.trackers {
		err := tracker.Save()
		if err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// learn runs a single training update on a minibatch of replayed
// experience, then moves the target network toward the model. Until
// the buffer has gathered its minimum number of observations, learn
// does nothing.
func (t *Trainer) learn() error {
	states, actions, rewards, dones, nextStates, err := t.replay.Sample()
	if expreplay.IsEmptyBuffer(err) || expreplay.IsInsufficientSamples(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("learn: could not sample experience: %v", err)
	}

	err = t.learner.Learn(states, actions, rewards, dones, nextStates)
	if err != nil {
		return fmt.Errorf("learn: %v", err)
	}

	err = Polyak(t.learner.TargetLearnables(), t.learner.Learnables(),
		t.params.Tau)
	if err != nil {
		return fmt.Errorf("learn: %v", err)
	}
	return nil
}

// track caches the reward of the current step in each Tracker
func (t *Trainer) track(reward float64, done bool) {
	for _, tracker := range t.trackers {
		tracker.Track(reward, done)
	}
}

// checkpoint offers the current step number to each Checkpointer
func (t *Trainer) checkpoint(step int) error {
	for _, checkpointer := range t.checkpointers {
		err := checkpointer.Checkpoint(step)
		if err != nil {
			return err
		}
	}
	return nil
}
