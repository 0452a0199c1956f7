package experiment

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Tracker accumulates data generated during a training run and saves
// it to disk once the run finishes. A Trainer feeds every reward to
// each of its registered Trackers, together with whether that reward
// ended the episode, whether through the environment terminating or
// the episode running out its step budget.
type Tracker interface {
	// Track records the reward of a single step. The done flag marks
	// the last step of an episode.
	Track(reward float64, done bool)

	// Save saves the recorded data to disk
	Save() error
}

// Returns tracks the episodic returns generated during a training
// run. An episode must end for its return to be recorded, so if a run
// stops partway through an episode, that episode's return is dropped.
//
// Returns implements the Tracker interface.
type Returns struct {
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturns returns a new Returns which will save its data to the
// file named filename
func NewReturns(filename string) *Returns {
	return &Returns{filename: filename}
}

// Track records the reward of a single step, folding it into the
// return of the current episode
func (r *Returns) Track(reward float64, done bool) {
	r.currentReturn += reward

	if done {
		r.episodeReturns = append(r.episodeReturns, r.currentReturn)
		r.currentReturn = 0.0
	}
}

// Data returns the episodic returns recorded so far
func (r *Returns) Data() []float64 {
	return r.episodeReturns
}

// Save saves the recorded episodic returns to disk as a gob encoded
// []float64
func (r *Returns) Save() error {
	file, err := os.Create(r.filename)
	if err != nil {
		return fmt.Errorf("save: could not create file: %v", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	err = encoder.Encode(r.episodeReturns)
	if err != nil {
		return fmt.Errorf("save: could not encode returns: %v", err)
	}

	return nil
}

// LoadReturns reads back the episodic returns saved by a Returns
// tracker
func LoadReturns(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadReturns: could not open file: %v",
			err)
	}
	defer file.Close()

	var data []float64
	decoder := gob.NewDecoder(file)
	err = decoder.Decode(&data)
	if err != nil {
		return nil, fmt.Errorf("loadReturns: could not decode "+
			"returns: %v", err)
	}

	return data, nil
}
