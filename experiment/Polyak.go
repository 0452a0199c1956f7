package experiment

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Polyak moves each weight tensor of a target network toward the
// matching weight tensor of the model being trained:
//
//	target = tau*model + (1-tau)*target
//
// computed elementwise. A tau of 1.0 copies the model outright, while
// small values move the target slowly so that the update targets it
// produces stay stable while the model changes underneath it.
//
// The target and model slices must hold the same number of tensors,
// and tensors at the same index must have the same shape.
func Polyak(target, model []*tensor.Dense, tau float64) error {
	if len(target) != len(model) {
		return fmt.Errorf("polyak: target has %v weight tensors but "+
			"model has %v", len(target), len(model))
	}

	for i := range target {
		scaledTarget, err := target[i].MulScalar(1-tau, true)
		if err != nil {
			return fmt.Errorf("polyak: could not scale target "+
				"weights: %v", err)
		}

		scaledModel, err := model[i].MulScalar(tau, true)
		if err != nil {
			return fmt.Errorf("polyak: could not scale model "+
				"weights: %v", err)
		}

		blended, err := scaledTarget.Add(scaledModel)
		if err != nil {
			return fmt.Errorf("polyak: could not average weights: %v",
				err)
		}

		err = tensor.Copy(target[i], blended)
		if err != nil {
			return fmt.Errorf("polyak: could not store averaged "+
				"weights: %v", err)
		}
	}

	return nil
}
