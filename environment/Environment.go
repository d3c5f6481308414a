// Package environment outlines the interfaces and structs needed to
// implement concrete one-shot environments
package environment

import (
	"github.com/CKLiao0419/golf-q-learning/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// Starter implements a distribution of starting states and samples
// starting states for environments. In the golf environment the
// starting state is the position of the hole.
type Starter interface {
	Start() mat.Vector
}

// Task implements the reward scheme for the final resting position of
// the ball relative to some goal position
type Task interface {
	Starter
	GetReward(ball, goal r2.Vec) float64
	AtGoal(ball, goal r2.Vec) bool
	RewardSpec() Spec
}

// Environment implements a simulated environment, which includes a
// Task to complete. Observations and actions are both flat indices
// into finite sets, described by ObservationSpec and ActionSpec.
type Environment interface {
	Task
	Reset() timestep.TimeStep // Resets between episodes
	Step(action int) (timestep.TimeStep, bool, error)
	ObservationSpec() Spec
	ActionSpec() Spec
}
