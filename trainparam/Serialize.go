package trainparam

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samuelfneumann/godqn/schedule"
)

// DefaultFilename is the file name Save writes to when given none
const DefaultFilename string = "training_parameters.json"

// Attribute names grouped by the numeric type they are persisted
// with. StepForFinalEpsilon is held as a float for the schedule
// arithmetic but persisted as an integer step count. LastStep is
// absent from both groups since it is runtime state.
var intAttr []string = []string{
	"buffer_size",
	"minibatch_size",
	"step_for_final_epsilon",
	"min_observation",
	"num_frames",
	"update_freq",
	"min_iter",
	"max_iter",
	"update_tensorboard_freq",
	"save_model_each",
}

var floatAttr []string = []string{
	"final_epsilon",
	"initial_epsilon",
	"lr",
	"lr_decay_steps",
	"lr_decay_rate",
	"discount_factor",
	"tau",
}

// intAttrValue returns the value of the named integer attribute,
// truncating attributes held as floats. The name must come from
// intAttr.
func (t *TrainingParam) intAttrValue(name string) int {
	switch name {
	case "buffer_size":
		return t.BufferSize
	case "minibatch_size":
		return t.MinibatchSize
	case "step_for_final_epsilon":
		return int(t.StepForFinalEpsilon)
	case "min_observation":
		return t.MinObservation
	case "num_frames":
		return t.NumFrames
	case "update_freq":
		return t.UpdateFreq
	case "min_iter":
		return t.MinIter
	case "max_iter":
		return t.MaxIter
	case "update_tensorboard_freq":
		return t.UpdateTensorboardFreq
	case "save_model_each":
		return t.SaveModelEach
	}
	panic("intAttrValue: no integer attribute named " + name)
}

// setIntAttr sets the named integer attribute. The name must come
// from intAttr.
func (t *TrainingParam) setIntAttr(name string, value int) {
	switch name {
	case "buffer_size":
		t.BufferSize = value
	case "minibatch_size":
		t.MinibatchSize = value
	case "step_for_final_epsilon":
		t.StepForFinalEpsilon = float64(value)
	case "min_observation":
		t.MinObservation = value
	case "num_frames":
		t.NumFrames = value
	case "update_freq":
		t.UpdateFreq = value
	case "min_iter":
		t.MinIter = value
	case "max_iter":
		t.MaxIter = value
	case "update_tensorboard_freq":
		t.UpdateTensorboardFreq = value
	case "save_model_each":
		t.SaveModelEach = value
	default:
		panic("setIntAttr: no integer attribute named " + name)
	}
}

// floatAttrValue returns the value of the named float attribute. The
// name must come from floatAttr.
func (t *TrainingParam) floatAttrValue(name string) float64 {
	switch name {
	case "final_epsilon":
		return t.FinalEpsilon
	case "initial_epsilon":
		return t.InitialEpsilon
	case "lr":
		return t.Lr
	case "lr_decay_steps":
		return t.LrDecaySteps
	case "lr_decay_rate":
		return t.LrDecayRate
	case "discount_factor":
		return t.DiscountFactor
	case "tau":
		return t.Tau
	}
	panic("floatAttrValue: no float attribute named " + name)
}

// setFloatAttr sets the named float attribute. The name must come
// from floatAttr.
func (t *TrainingParam) setFloatAttr(name string, value float64) {
	switch name {
	case "final_epsilon":
		t.FinalEpsilon = value
	case "initial_epsilon":
		t.InitialEpsilon = value
	case "lr":
		t.Lr = value
	case "lr_decay_steps":
		t.LrDecaySteps = value
	case "lr_decay_rate":
		t.LrDecayRate = value
	case "discount_factor":
		t.DiscountFactor = value
	case "tau":
		t.Tau = value
	default:
		panic("setFloatAttr: no float attribute named " + name)
	}
}

// ToDict returns the persisted attributes as a flat mapping from
// attribute name to value. Integer attributes appear as int and float
// attributes as float64, so the mapping encodes to JSON with the same
// numeric shapes Save writes.
func (t *TrainingParam) ToDict() map[string]interface{} {
	dict := make(map[string]interface{}, len(intAttr)+len(floatAttr))
	for _, name := range intAttr {
		dict[name] = t.intAttrValue(name)
	}
	for _, name := range floatAttr {
		dict[name] = t.floatAttrValue(name)
	}
	return dict
}

// FromDict returns a new TrainingParam holding the defaults of New
// overwritten by whichever recognized attributes dict provides.
// Unrecognized keys are ignored so that files written by newer code
// still load. Values must be numbers or strings holding numbers;
// anything else yields an error satisfying IsTypeConversion and no
// TrainingParam.
func FromDict(dict map[string]interface{}) (*TrainingParam, error) {
	t := New()
	for _, name := range intAttr {
		value, ok := dict[name]
		if !ok {
			continue
		}
		converted, ok := toInt(value)
		if !ok {
			return nil, &ParamError{
				Op:   "fromDict",
				Info: fmt.Sprintf("attribute %q, %T %v", name, value, value),
				Err:  errTypeConversion,
			}
		}
		t.setIntAttr(name, converted)
	}
	for _, name := range floatAttr {
		value, ok := dict[name]
		if !ok {
			continue
		}
		converted, ok := toFloat(value)
		if !ok {
			return nil, &ParamError{
				Op:   "fromDict",
				Info: fmt.Sprintf("attribute %q, %T %v", name, value, value),
				Err:  errTypeConversion,
			}
		}
		t.setFloatAttr(name, converted)
	}
	t.expFacto = schedule.Coefficient(t.InitialEpsilon, t.FinalEpsilon)
	return t, nil
}

// toInt converts a value from a parameter mapping to an integer
// attribute. Floats are truncated toward zero and strings must hold a
// base 10 integer.
func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float32:
		return toInt(float64(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
		if f, err := v.Float64(); err == nil {
			return toInt(f)
		}
		return 0, false
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// toFloat converts a value from a parameter mapping to a float
// attribute.
func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Load reads the JSON parameter file at path and returns the
// TrainingParam it describes, defaulting every attribute the file
// omits. The error satisfies IsFileNotFound when path does not exist
// and IsMalformedFile when the contents do not form a JSON mapping.
func Load(path string) (*TrainingParam, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ParamError{Op: "load", Info: path,
				Err: errFileNotFound}
		}
		return nil, fmt.Errorf("load: %v", err)
	}

	var dict map[string]interface{}
	if err := json.Unmarshal(data, &dict); err != nil || dict == nil {
		return nil, &ParamError{Op: "load", Info: path,
			Err: errMalformedFile}
	}
	return FromDict(dict)
}

// Save writes the persisted attributes as pretty printed JSON with
// sorted keys to the file called name inside directory dir,
// overwriting any existing file. When name is empty, DefaultFilename
// is used. The error satisfies IsDirectoryNotFound when dir does not
// exist and IsNotADirectory when dir exists but is no directory.
func (t *TrainingParam) Save(dir, name string) error {
	if name == "" {
		name = DefaultFilename
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return &ParamError{Op: "save", Info: dir,
				Err: errDirectoryNotFound}
		}
		return fmt.Errorf("save: %v", err)
	}
	if !info.IsDir() {
		return &ParamError{Op: "save", Info: dir, Err: errNotADirectory}
	}

	data, err := json.MarshalIndent(t.ToDict(), "", "    ")
	if err != nil {
		return fmt.Errorf("save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}
