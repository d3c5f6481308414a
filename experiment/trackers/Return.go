// Package trackers implements Trackers of experiment data
package trackers

import (
	"fmt"

	"github.com/CKLiao0419/golf-q-learning/experiment/tracker"
	ts "github.com/CKLiao0419/golf-q-learning/timestep"
	"github.com/CKLiao0419/golf-q-learning/utils/intutils"
	"gonum.org/v1/gonum/stat"
)

// Return tracks and saves the episodic return in an experiment. When
// an environment returns a TimeStep, this Tracker will extract the
// reward and accumulate the return for each episode in the experiment.
//
// Note: An episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// return will not be saved.
type Return struct {
	lastTimeStep   int
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker. If filename is
// empty, the data is kept in memory only and Save is a no-op.
func NewReturn(filename string) *Return {
	var saver Return
	saver.lastTimeStep = -1
	saver.filename = filename
	return &saver
}

// Track tracks the rewards seen on a timestep. By calling this method
// on every timestep, the Tracker will store all rewards seen in the
// episode, and save the cumulative reward for that episode as the
// episodic return. When a new episode starts, this method will
// automatically detect this and start accumulating the rewards for this
// new episode separately from the rewards seen on previous episodes.
//
// Track panics if it is called for non-sequential timesteps
func (r *Return) Track(step ts.TimeStep) {
	// Ensure that Track is called on sequential timesteps
	if r.lastTimeStep+1 != step.Number {
		msg := fmt.Sprintf("track: last two timesteps tracked are not "+
			"sequential: timestep %v --> timestep %v were tracked",
			r.lastTimeStep, step.Number)
		panic(msg)
	}

	r.currentReturn += step.Reward
	if !step.Last() {
		r.lastTimeStep = step.Number
		return
	}

	// Episode has ended, save the return and begin tracking the
	// return for a new episode
	r.episodeReturns = append(r.episodeReturns, r.currentReturn)
	r.currentReturn = 0.0
	r.lastTimeStep = -1
}

// Episodes returns the number of finished episodes tracked
func (r *Return) Episodes() int {
	return len(r.episodeReturns)
}

// Returns returns a copy of the returns of all finished episodes
func (r *Return) Returns() []float64 {
	out := make([]float64, len(r.episodeReturns))
	copy(out, r.episodeReturns)
	return out
}

// RecentMean returns the mean return of the last n finished episodes,
// or of all finished episodes if fewer than n have finished. Zero is
// returned if no episodes have finished.
func (r *Return) RecentMean(n int) float64 {
	if len(r.episodeReturns) == 0 || n < 1 {
		return 0
	}
	start := intutils.Max(len(r.episodeReturns)-n, 0)
	return stat.Mean(r.episodeReturns[start:], nil)
}

// Save saves the data tracked by the Return Tracker to disk.
func (r *Return) Save() error {
	if r.filename == "" {
		return nil
	}
	if err := tracker.SaveData(r.filename, r.episodeReturns); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
