package experiment

import (
	"fmt"
	"strings"
	"testing"
)

// spySerializable records the filenames it was asked to save to
type spySerializable struct {
	filenames []string
	err       error
}

func (s *spySerializable) Save(filename string) error {
	if s.err != nil {
		return s.err
	}
	s.filenames = append(s.filenames, filename)
	return nil
}

func TestNStepCheckpointsOnInterval(t *testing.T) {
	object := &spySerializable{}
	checkpointer := NewNStep(3, object, FilenameEnumerator(0, "model",
		".bin"))

	for step := 1; step <= 10; step++ {
		err := checkpointer.Checkpoint(step)
		if err != nil {
			t.Fatalf("could not checkpoint at step %v: %v", step, err)
		}
	}

	// Saves should happen at steps 3, 6, and 9
	want := []string{"model1.bin", "model2.bin", "model3.bin"}
	if len(object.filenames) != len(want) {
		t.Fatalf("wrong number of checkpoints \n\twant(%v) \n\thave(%v)",
			len(want), len(object.filenames))
	}
	for i := range want {
		if want[i] != object.filenames[i] {
			t.Errorf("wrong checkpoint filename \n\twant(%v) "+
				"\n\thave(%v)", want[i], object.filenames[i])
		}
	}
}

func TestNStepNonPositiveInterval(t *testing.T) {
	object := &spySerializable{}
	checkpointer := NewNStep(0, object, FilenameEnumerator(0, "model",
		".bin"))

	for step := 1; step <= 5; step++ {
		err := checkpointer.Checkpoint(step)
		if err != nil {
			t.Fatalf("could not checkpoint at step %v: %v", step, err)
		}
	}

	if len(object.filenames) != 0 {
		t.Errorf("checkpointer with interval 0 saved %v times",
			len(object.filenames))
	}
}

func TestNStepSaveError(t *testing.T) {
	object := &spySerializable{err: fmt.Errorf("disk full")}
	checkpointer := NewNStep(2, object, FilenameEnumerator(0, "model",
		".bin"))

	err := checkpointer.Checkpoint(1)
	if err != nil {
		t.Errorf("checkpoint off the interval should not save: %v", err)
	}

	err = checkpointer.Checkpoint(2)
	if err == nil {
		t.Error("expected the save error to propagate")
	}
}

func TestFilenameEnumerator(t *testing.T) {
	filename := FilenameEnumerator(5, "data/weights", ".gob")

	want := []string{"data/weights6.gob", "data/weights7.gob",
		"data/weights8.gob"}
	for _, name := range want {
		have := filename()
		if name != have {
			t.Errorf("wrong filename \n\twant(%v) \n\thave(%v)", name,
				have)
		}
	}
}

func TestFileTimer(t *testing.T) {
	filename := FileTimer("run", ".bin")

	name := filename()
	if !strings.HasPrefix(name, "run-") {
		t.Errorf("filename %v missing the run- prefix", name)
	}
	if !strings.HasSuffix(name, ".bin") {
		t.Errorf("filename %v missing the .bin extension", name)
	}
}
