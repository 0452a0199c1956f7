package experiment

import (
	"testing"

	"gonum.org/v1/gonum/floats"
	"gorgonia.org/tensor"
)

// tolerance is the absolute tolerance within which float comparisons
// are considered equal
const tolerance float64 = 1.0e-8

// seed is the fixed seed used to keep the tests deterministic
const seed uint64 = 192382

func newDense(shape []int, backing []float64) *tensor.Dense {
	return tensor.New(tensor.WithShape(shape...),
		tensor.WithBacking(backing))
}

func TestPolyak(t *testing.T) {
	target := []*tensor.Dense{
		newDense([]int{2, 2}, []float64{0.0, 0.0, 0.0, 0.0}),
		newDense([]int{3}, []float64{1.0, 2.0, 3.0}),
	}
	model := []*tensor.Dense{
		newDense([]int{2, 2}, []float64{1.0, 1.0, 1.0, 1.0}),
		newDense([]int{3}, []float64{3.0, 2.0, 1.0}),
	}

	err := Polyak(target, model, 0.5)
	if err != nil {
		t.Fatalf("could not average weights: %v", err)
	}

	want := [][]float64{
		{0.5, 0.5, 0.5, 0.5},
		{2.0, 2.0, 2.0},
	}
	for i := range target {
		have := target[i].Data().([]float64)
		if !floats.EqualApprox(want[i], have, tolerance) {
			t.Errorf("wrong target weights for tensor %v "+
				"\n\twant(%v) \n\thave(%v)", i, want[i], have)
		}
	}
}

func TestPolyakFullReplacement(t *testing.T) {
	target := []*tensor.Dense{
		newDense([]int{2}, []float64{-1.0, 4.0}),
	}
	model := []*tensor.Dense{
		newDense([]int{2}, []float64{0.25, 0.75}),
	}

	err := Polyak(target, model, 1.0)
	if err != nil {
		t.Fatalf("could not average weights: %v", err)
	}

	want := []float64{0.25, 0.75}
	have := target[0].Data().([]float64)
	if !floats.EqualApprox(want, have, tolerance) {
		t.Errorf("wrong target weights \n\twant(%v) \n\thave(%v)",
			want, have)
	}
}

func TestPolyakLeavesModelUnchanged(t *testing.T) {
	target := []*tensor.Dense{
		newDense([]int{2}, []float64{0.0, 0.0}),
	}
	model := []*tensor.Dense{
		newDense([]int{2}, []float64{2.0, -2.0}),
	}

	err := Polyak(target, model, 0.1)
	if err != nil {
		t.Fatalf("could not average weights: %v", err)
	}

	want := []float64{2.0, -2.0}
	have := model[0].Data().([]float64)
	if !floats.EqualApprox(want, have, tolerance) {
		t.Errorf("model weights changed \n\twant(%v) \n\thave(%v)",
			want, have)
	}
}

func TestPolyakMismatchedWeightCounts(t *testing.T) {
	target := []*tensor.Dense{
		newDense([]int{2}, []float64{0.0, 0.0}),
	}

	err := Polyak(target, nil, 0.5)
	if err == nil {
		t.Error("expected an error for mismatched weight counts")
	}
}
