package trackers

import (
	"fmt"

	"github.com/CKLiao0419/golf-q-learning/experiment/tracker"
	"github.com/CKLiao0419/golf-q-learning/timestep"
)

// Hits tracks and saves, for each episode in an experiment, whether
// the final reward of the episode reached a threshold. In the golf
// environment, a threshold of the hole bonus tracks holes-in-one.
//
// Note that an episode must finish for this Tracker to save its data.
type Hits struct {
	threshold float64
	hits      []float64
	total     int
	filename  string
}

// NewHits returns a new Hits tracker which will save its data at the
// specified location filename. If filename is empty, Save is a no-op.
func NewHits(threshold float64, filename string) *Hits {
	return &Hits{threshold: threshold, filename: filename}
}

// Track records a 1 for the episode if the argument timestep is the
// last in the episode and its reward reached the threshold, and a 0
// if it is the last in the episode otherwise.
func (h *Hits) Track(t timestep.TimeStep) {
	if !t.Last() {
		return
	}
	if t.Reward >= h.threshold {
		h.hits = append(h.hits, 1)
		h.total++
	} else {
		h.hits = append(h.hits, 0)
	}
}

// Total returns the number of episodes that reached the threshold
func (h *Hits) Total() int {
	return h.total
}

// Rate returns the fraction of finished episodes that reached the
// threshold
func (h *Hits) Rate() float64 {
	if len(h.hits) == 0 {
		return 0
	}
	return float64(h.total) / float64(len(h.hits))
}

// Save saves the data tracked by the Hits Tracker to disk
func (h *Hits) Save() error {
	if h.filename == "" {
		return nil
	}
	if err := tracker.SaveData(h.filename, h.hits); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
