package checkpointer

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/CKLiao0419/golf-q-learning/utils/fileutils"
	"github.com/rs/zerolog/log"
)

// nStep implements checkpointing every N episodes
type nStep struct {
	interval int
	object   Serializable // Object to save

	// filename returns the string filename of the file to save the object
	// in.
	//
	// If each serialized object should be saved in a separate file with
	// each file having an incremented number as a suffix (e.g.
	// file1.bin, file2.bin, ..., fileK.bin), then simply use the
	// static function FilenameEnumerator, which will return a function
	// that will enumerate filenames.
	//
	// Otherwise, if each serialized object should be saved in a
	// separate file, but the filename does not matter, use the
	// static function FileTimer to generate the required naming
	// function. For example:
	//
	// n := NewNStep(10, object, FileTimer("filename", ".bin"))
	//
	// To overwrite a single file, use Fixed.
	filename func() string
}

// NewNStep returns a checkpointer that checkpoints every n episodes.
func NewNStep(n int, object Serializable,
	filename func() string) (Checkpointer, error) {
	if n < 1 {
		return nil, fmt.Errorf("newNStep: interval must be positive "+
			"(interval = %d)", n)
	}
	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint atomically saves the Checkpointer's tracked object with
// gob if episode is a multiple of the interval
func (n *nStep) Checkpoint(episode int) error {
	if episode == 0 || episode%n.interval != 0 {
		return nil
	}

	filename := n.filename()
	err := fileutils.WriteAtomic(filename, func(w io.Writer) error {
		return gob.NewEncoder(w).Encode(n.object)
	})
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}

	log.Debug().Msgf("Checkpoint at episode %d saved to %s", episode,
		filename)
	return nil
}
