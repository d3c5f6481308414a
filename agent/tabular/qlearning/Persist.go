package qlearning

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/CKLiao0419/golf-q-learning/utils/fileutils"
	"github.com/CKLiao0419/golf-q-learning/utils/matutils"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNoSavedState is returned when loading from a location that has
	// nothing saved. The agent is left untouched.
	ErrNoSavedState = errors.New("no saved state")

	// ErrCorruptState is returned when saved state cannot be decoded or
	// does not fit the agent. The agent is left untouched.
	ErrCorruptState = errors.New("corrupt saved state")
)

// GobEncode implements the gob.GobEncoder interface. Only the value
// table is encoded.
func (q *QLearning) GobEncode() ([]byte, error) {
	return q.table.MarshalBinary()
}

// GobDecode implements the gob.GobDecoder interface. The decoded table
// must have the same shape as the agent's table. After decoding, the
// exploration rate is set to its minimum.
func (q *QLearning) GobDecode(in []byte) error {
	var table mat.Dense
	if err := table.UnmarshalBinary(in); err != nil {
		return fmt.Errorf("gobDecode: %w", err)
	}
	if !matutils.EqualShape(q.table, &table) {
		r, c := table.Dims()
		wr, wc := q.table.Dims()
		return fmt.Errorf("gobDecode: saved table has shape (%d, %d), "+
			"expected (%d, %d)", r, c, wr, wc)
	}

	q.table.Copy(&table)
	q.EGreedy.SetEpsilon(q.config.EpsilonMin)
	return nil
}

// Save writes the value table of the agent to w
func (q *QLearning) Save(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(q); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Load restores the value table of the agent from r, which must hold
// the output of a previous call to Save on an agent of the same shape.
// On success, the exploration rate is set to its minimum. On failure,
// the returned error wraps ErrNoSavedState if r is empty or
// ErrCorruptState otherwise, and the agent is left untouched.
func (q *QLearning) Load(r io.Reader) error {
	err := gob.NewDecoder(r).Decode(q)
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("load: %w", ErrNoSavedState)
	} else if err != nil {
		return fmt.Errorf("load: %w: %v", ErrCorruptState, err)
	}
	return nil
}

// SaveFile atomically saves the agent to filename, creating parent
// directories as needed
func (q *QLearning) SaveFile(filename string) error {
	if err := fileutils.WriteAtomic(filename, q.Save); err != nil {
		return fmt.Errorf("saveFile: %w", err)
	}

	log.Info().Msgf("Model saved to %s", filename)
	return nil
}

// LoadFile loads the agent from filename. If filename does not exist,
// a warning is logged and an error wrapping ErrNoSavedState is
// returned. An existing file that cannot be loaded, including an empty
// one, results in an error wrapping ErrCorruptState.
func (q *QLearning) LoadFile(filename string) error {
	f, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Msgf("No saved model found at %s", filename)
		return fmt.Errorf("loadFile: %s: %w", filename, ErrNoSavedState)
	} else if err != nil {
		return fmt.Errorf("loadFile: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("loadFile: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("loadFile: %s: %w: empty file", filename,
			ErrCorruptState)
	}

	if err := q.Load(f); err != nil {
		return fmt.Errorf("loadFile: %s: %w", filename, err)
	}

	log.Info().Msgf("Model loaded from %s (ε = %v)", filename, q.Epsilon())
	return nil
}
