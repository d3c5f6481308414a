// Package qlearning implements tabular Q-Learning with an ε-greedy
// behaviour policy.
//
// Shots in the golf environment are one-step episodes, so the learner
// regresses each action value towards the reward of the shot. The
// discount factor is carried in the Config for completeness but never
// applied.
package qlearning

import (
	"fmt"

	"github.com/CKLiao0419/golf-q-learning/agent/tabular/policy"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// QLearning implements the Q-Learning algorithm. The QLearner and the
// EGreedy policy share a single value table with one row per state and
// one column per action.
type QLearning struct {
	*QLearner
	*policy.EGreedy
	config Config
	table  *mat.Dense
}

// New creates a new QLearning agent over states × actions values, all
// initialized to zero. Exploration draws random numbers from src.
func New(states, actions int, c Config, src rand.Source) (*QLearning,
	error) {
	if states < 1 || actions < 1 {
		return nil, fmt.Errorf("new: there must be at least one state and "+
			"action (states = %d, actions = %d)", states, actions)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	table := mat.NewDense(states, actions, nil)
	behaviour, err := policy.NewEGreedy(table, c.Schedule(), src)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	learner := NewQLearner(table, c.LearningRate)

	return &QLearning{
		QLearner: learner,
		EGreedy:  behaviour,
		config:   c,
		table:    table,
	}, nil
}

// Weights gets and returns the value table of the agent
func (q *QLearning) Weights() map[string]*mat.Dense {
	return q.EGreedy.Weights()
}

// SetWeights copies the argument weights into the value table
func (q *QLearning) SetWeights(weights map[string]*mat.Dense) error {
	return q.EGreedy.SetWeights(weights)
}

// DecayExploration anneals the exploration rate once
func (q *QLearning) DecayExploration() {
	q.EGreedy.Decay()
}

// Discount returns the configured discount factor
func (q *QLearning) Discount() float64 {
	return q.config.Discount
}

// Config returns the configuration of the agent
func (q *QLearning) Config() Config {
	return q.config
}

// Dims returns the number of states and actions in the value table
func (q *QLearning) Dims() (states, actions int) {
	return q.table.Dims()
}

// Value returns the current estimate of the value of action in state
func (q *QLearning) Value(state, action int) float64 {
	return q.table.At(state, action)
}
