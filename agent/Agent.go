// Package agent defines an agent interface
package agent

import (
	"github.com/CKLiao0419/golf-q-learning/timestep"
	"gonum.org/v1/gonum/mat"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns weights, and a Policy
// which chooses actions in each state. The Policy chooses which actions
// are taken, and the Learner uses these actions to update the Policy.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how weights are
// updated.
//
// A Learner determines how weights are changed, and therefore how a Policy
// changes over time. The Learner and Policy of an Agent should have pointers
// to the same weights so that the Learner can use the transitions chosen by
// the Policy to update the weights appropriately.
type Learner interface {
	// Step performs a single update to the learner
	Step()

	// Observe records that an action lead to some timestep
	Observe(action int, nextStep timestep.TimeStep)

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(timestep.TimeStep)

	Weights() map[string]*mat.Dense
	SetWeights(map[string]*mat.Dense) error
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. Agents usually have a
// target and behaviour policy. For a given agent, the Policy and Learner
// should have pointers to the same weights so that any changes the learner
// makes to the weights are reflected in the actions the Policy chooses
type Policy interface {
	SelectAction(t timestep.TimeStep) int
	Eval()        // Set policy to evaluation mode
	Train()       // Set policy to training mode
	IsEval() bool // Indicates if in evaluation mode
}

// Explorer is an Agent whose exploration rate is annealed over the
// course of an experiment
type Explorer interface {
	Agent

	// DecayExploration anneals the exploration rate once. It should be
	// called at the end of each episode.
	DecayExploration()

	// Epsilon returns the current exploration rate
	Epsilon() float64
}
