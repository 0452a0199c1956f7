package solver

import (
	"encoding/json"
	"testing"

	"github.com/samuelfneumann/godqn/trainparam"
)

// TestJSONRoundTrip checks that solvers survive the trip through a
// JSON configuration file with their type and hyperparameters intact.
func TestJSONRoundTrip(t *testing.T) {
	adam, err := NewAdam(1e-3, 1e-8, 0.9, 0.999, 32)
	if err != nil {
		t.Fatalf("could not create Adam solver: %v", err)
	}
	vanilla, err := NewVanilla(1e-2, 16, 0.5)
	if err != nil {
		t.Fatalf("could not create Vanilla solver: %v", err)
	}

	for _, original := range []*Solver{adam, vanilla} {
		data, err := json.Marshal(original)
		if err != nil {
			t.Fatalf("could not marshal %v solver: %v", original.Type,
				err)
		}

		loaded := &Solver{}
		if err := json.Unmarshal(data, loaded); err != nil {
			t.Fatalf("could not unmarshal %v solver: %v", original.Type,
				err)
		}

		if loaded.Type != original.Type {
			t.Errorf("wrong solver type \n\twant(%v) \n\thave(%v)",
				original.Type, loaded.Type)
		}
		if loaded.Config != original.Config {
			t.Errorf("wrong %v configuration \n\twant(%v) \n\thave(%v)",
				original.Type, original.Config, loaded.Config)
		}
		if loaded.Solver == nil {
			t.Errorf("no underlying %v solver created", original.Type)
		}
	}
}

func TestUnmarshalUnknownType(t *testing.T) {
	data := []byte(`{"Type": "Newton", "Config": {"StepSize": 0.1}}`)

	loaded := &Solver{}
	if err := json.Unmarshal(data, loaded); err == nil {
		t.Error("expected an error unmarshalling an unknown solver type")
	}
}

func TestNewSolverInvalidType(t *testing.T) {
	if _, err := newSolver(Vanilla, AdamConfig{}); err == nil {
		t.Error("expected an error creating a Vanilla solver from an " +
			"Adam configuration")
	}
}

// TestFromTrainingParam checks that the solver a TrainingParam
// describes picks up the learning rate and minibatch size.
func TestFromTrainingParam(t *testing.T) {
	params := trainparam.New()
	params.Lr = 2.5e-4
	params.MinibatchSize = 128

	s, err := FromTrainingParam(params)
	if err != nil {
		t.Fatalf("could not create solver: %v", err)
	}

	if s.Type != Adam {
		t.Errorf("wrong solver type \n\twant(%v) \n\thave(%v)", Adam,
			s.Type)
	}
	config, ok := s.Config.(AdamConfig)
	if !ok {
		t.Fatalf("wrong configuration type %T", s.Config)
	}
	if config.StepSize != params.Lr {
		t.Errorf("wrong step size \n\twant(%v) \n\thave(%v)", params.Lr,
			config.StepSize)
	}
	if config.Batch != params.MinibatchSize {
		t.Errorf("wrong batch size \n\twant(%v) \n\thave(%v)",
			params.MinibatchSize, config.Batch)
	}
}

// TestSetLearnRate checks that a decayed learning rate reaches the
// configuration and recreates the wrapped solver.
func TestSetLearnRate(t *testing.T) {
	s, err := NewDefaultAdam(1e-4, 64)
	if err != nil {
		t.Fatalf("could not create solver: %v", err)
	}
	before := s.Solver

	s.SetLearnRate(5e-5)

	config, ok := s.Config.(AdamConfig)
	if !ok {
		t.Fatalf("wrong configuration type %T", s.Config)
	}
	if config.StepSize != 5e-5 {
		t.Errorf("wrong step size \n\twant(%v) \n\thave(%v)", 5e-5,
			config.StepSize)
	}
	if s.Solver == before {
		t.Error("underlying solver was not recreated")
	}

	// The remaining Adam hyperparameters are untouched
	if config.Epsilon != 1e-8 || config.Beta1 != 0.9 ||
		config.Beta2 != 0.999 || config.Batch != 64 {
		t.Errorf("unexpected configuration change: %+v", config)
	}
}
