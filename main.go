package main

import (
	"fmt"

	"github.com/samuelfneumann/godqn/examples"
	"github.com/samuelfneumann/godqn/experiment"
	"github.com/samuelfneumann/godqn/trainparam"
)

func main() {
	var seed uint64 = 192382

	// Describe the run. The defaults size everything for long runs, so
	// shrink the buffer and cadences to fit a quick demo.
	params := trainparam.New()
	params.BufferSize = 2000
	params.MinObservation = 100
	params.MinibatchSize = 32
	params.UpdateFreq = 4
	params.SetEpsilon(1.0, 0.05)
	params.StepForFinalEpsilon = 5000
	params.Lr = 0.25
	params.LrDecaySteps = 5000
	params.LrDecayRate = 0.9
	params.Tau = 0.5
	params.MinIter = 30
	params.MaxIter = 200
	params.UpdateTensorboardFreq = 2500
	params.SaveModelEach = 0

	// Persist the run description and read it back, as a real run
	// would to stay reproducible
	err := params.Save(".", "")
	if err != nil {
		panic(err)
	}
	params, err = trainparam.Load(trainparam.DefaultFilename)
	if err != nil {
		panic(err)
	}

	// Create the environment and the learner
	env, err := examples.NewChainWalk(8)
	if err != nil {
		panic(err)
	}
	learner, err := examples.NewTabularQ(env.ObservationSize(),
		env.NumActions(), params.Lr, params.DiscountFactor)
	if err != nil {
		panic(err)
	}

	// Train
	returns := experiment.NewReturns("./data.bin")
	trainer, err := experiment.NewTrainer(env, learner, params, 20_000,
		seed, returns)
	if err != nil {
		panic(err)
	}
	trainer.ShowProgress(true)

	err = trainer.Run()
	if err != nil {
		panic(err)
	}
	err = trainer.Save()
	if err != nil {
		panic(err)
	}

	data, err := experiment.LoadReturns("./data.bin")
	if err != nil {
		panic(err)
	}
	fmt.Println(data)
}
