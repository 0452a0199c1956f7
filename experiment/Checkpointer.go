package experiment

import (
	"fmt"
	"time"
)

// Serializable is any object that can save itself to a file, such as
// a Learner writing out its weights.
type Serializable interface {
	Save(filename string) error
}

// Checkpointer saves a Serializable on some schedule of training
// steps. A Trainer offers every step number to each registered
// Checkpointer, which decides for itself whether to save.
type Checkpointer interface {
	Checkpoint(step int) error
}

// nStep checkpoints a Serializable every interval steps
type nStep struct {
	interval int
	object   Serializable
	filename func() string
}

// NewNStep returns a Checkpointer which saves object every interval
// training steps. The filename function names the file of each save,
// so successive checkpoints can be kept side by side, for example
// with a FilenameEnumerator. An interval below 1 produces a
// Checkpointer that never saves.
func NewNStep(interval int, object Serializable,
	filename func() string) Checkpointer {
	return &nStep{
		interval: interval,
		object:   object,
		filename: filename,
	}
}

// Checkpoint saves the underlying object if step falls on the
// checkpointing interval
func (n *nStep) Checkpoint(step int) error {
	if n.interval < 1 || step%n.interval != 0 {
		return nil
	}

	err := n.object.Save(n.filename())
	if err != nil {
		return fmt.Errorf("checkpoint: could not save at step %v: %v",
			step, err)
	}
	return nil
}

// fileEnumerator generates sequentially numbered filenames
type fileEnumerator struct {
	count     int
	name      string
	extension string
}

// filename returns the next filename in the sequence
func (f *fileEnumerator) filename() string {
	f.count++
	return fmt.Sprintf("%v%v%v", f.name, f.count, f.extension)
}

// FilenameEnumerator returns a function which generates sequentially
// numbered filenames of the form name1.extension, name2.extension,
// and so on, starting the count after start. The extension should
// include the leading dot.
func FilenameEnumerator(start int, name, extension string) func() string {
	enumerator := fileEnumerator{
		count:     start,
		name:      name,
		extension: extension,
	}
	return enumerator.filename
}

// FileTimer returns a function which generates filenames holding the
// number of nanoseconds since January 1, 1970 at the time of the
// call. The extension should include the leading dot.
func FileTimer(name, extension string) func() string {
	return func() string {
		return fmt.Sprintf("%v-%v%v", name, time.Now().UnixNano(),
			extension)
	}
}
