package qlearning

import (
	"github.com/CKLiao0419/golf-q-learning/agent/tabular/policy"
	"github.com/CKLiao0419/golf-q-learning/timestep"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// QLearner implements the update functionality for tabular Q-Learning
// on one-step episodes.
//
// Every episode is a single shot, so the update target is the reward
// alone: Q(s, a) ← Q(s, a) + α(r - Q(s, a)). The state is the one in
// which the action was taken.
type QLearner struct {
	weights      *mat.Dense
	step         timestep.TimeStep
	action       int
	nextStep     timestep.TimeStep
	learningRate float64
}

// NewQLearner creates a new QLearner struct
//
// weights are the weights of the policy to learn
func NewQLearner(weights *mat.Dense, learningRate float64) *QLearner {
	step := timestep.TimeStep{}
	nextStep := timestep.TimeStep{}

	return &QLearner{weights, step, -1, nextStep, learningRate}
}

// ObserveFirst observes and records the first episodic timestep
func (q *QLearner) ObserveFirst(t timestep.TimeStep) {
	if !t.First() {
		log.Warn().Msgf("ObserveFirst() should only be called on the "+
			"first timestep (current timestep = %d)", t.Number)
	}
	q.step = timestep.TimeStep{}
	q.action = -1
	q.nextStep = t
}

// Observe observes and records any timestep other than the first timestep
func (q *QLearner) Observe(action int, nextStep timestep.TimeStep) {
	q.step = q.nextStep
	q.action = action
	q.nextStep = nextStep
}

// Step updates the weights of the Agent's Learner and Policy using the
// last observed transition
func (q *QLearner) Step() {
	if q.action < 0 {
		log.Warn().Msg("Step() called before an action was observed")
		return
	}
	q.Update(q.step.Observation, q.action, q.nextStep.Reward)
}

// Update moves the value of action in state towards reward
func (q *QLearner) Update(state, action int, reward float64) {
	current := q.weights.At(state, action)
	q.weights.Set(state, action, current+q.learningRate*(reward-current))
}

// LearningRate returns the step size of the learner
func (q *QLearner) LearningRate() float64 {
	return q.learningRate
}

// Weights gets and returns the weights of the learner
func (q *QLearner) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights[policy.WeightsKey] = q.weights

	return weights
}
