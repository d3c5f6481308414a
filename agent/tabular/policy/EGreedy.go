// Package policy implements policies over tables of action values
package policy

import (
	"fmt"

	"github.com/CKLiao0419/golf-q-learning/timestep"
	"github.com/CKLiao0419/golf-q-learning/utils/matutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

const (
	// Keys for weights map: map[string]*mat.Dense
	WeightsKey string = "weights"
)

// Schedule describes how the exploration rate of an EGreedy policy is
// annealed. The rate starts at Start and is multiplied by Decay each
// time it is decayed, until it reaches Min.
type Schedule struct {
	Start float64
	Min   float64
	Decay float64
}

// Validate returns an error if the Schedule is invalid
func (s Schedule) Validate() error {
	if !(s.Start >= 0 && s.Start <= 1) {
		return fmt.Errorf("starting epsilon %v ∉ [0, 1]", s.Start)
	}
	if !(s.Min >= 0 && s.Min <= s.Start) {
		return fmt.Errorf("minimum epsilon %v ∉ [0, %v]", s.Min, s.Start)
	}
	if !(s.Decay > 0 && s.Decay <= 1) {
		return fmt.Errorf("epsilon decay %v ∉ (0, 1]", s.Decay)
	}
	return nil
}

// EGreedy implements an ε-greedy policy over a table of action values.
// With probability ε a uniformly random action is taken, otherwise
// the greedy action is taken.
//
// The exploration rate ε follows a Schedule, it never increases
// through Decay and never falls below the Schedule minimum.
//
// EGreedy is not safe for concurrent use.
type EGreedy struct {
	weights      *mat.Dense
	GreedyPolicy *Greedy
	schedule     Schedule
	epsilon      float64
	rng          *rand.Rand
	eval         bool
}

// NewEGreedy constructs a new EGreedy policy over the argument weights,
// which have one row per state and one column per action. All random
// numbers are drawn from src.
func NewEGreedy(weights *mat.Dense, schedule Schedule,
	src rand.Source) (*EGreedy, error) {
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("newEGreedy: %v", err)
	}

	greedyPolicy := NewGreedy(weights) // Share weights between both Policies

	return &EGreedy{
		weights:      weights,
		GreedyPolicy: greedyPolicy,
		schedule:     schedule,
		epsilon:      schedule.Start,
		rng:          rand.New(src),
	}, nil
}

// Weights gets and returns the weights of the EGreedy policy as a
// string description -> weights
func (p *EGreedy) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights[WeightsKey] = p.weights

	return weights
}

// SetWeights copies the argument weights into the weights of the
// policy. The SetWeights function can take the output of a call to
// Weights() on another EGreedy Policy directly
func (p *EGreedy) SetWeights(weights map[string]*mat.Dense) error {
	newWeights, ok := weights[WeightsKey]
	if !ok {
		return fmt.Errorf("setWeights: no weights named \"%v\"", WeightsKey)
	}
	if !matutils.EqualShape(p.weights, newWeights) {
		r, c := newWeights.Dims()
		wr, wc := p.weights.Dims()
		return fmt.Errorf("setWeights: weights have shape (%v, %v), "+
			"expected (%v, %v)", r, c, wr, wc)
	}

	p.weights.Copy(newWeights)
	return nil
}

// SelectAction selects an action from the ε-greedy policy in training
// mode and from the greedy policy in evaluation mode
func (p *EGreedy) SelectAction(t timestep.TimeStep) int {
	return p.ChooseAction(t.Observation, !p.eval)
}

// ChooseAction selects an action in the argument state. If explore is
// true, a uniformly random action is returned with probability ε.
// Otherwise, the action with the highest value is returned, breaking
// ties in favour of the lowest action index.
func (p *EGreedy) ChooseAction(state int, explore bool) int {
	if explore && p.rng.Float64() < p.epsilon {
		_, actions := p.weights.Dims()
		return p.rng.Intn(actions)
	}
	return p.GreedyPolicy.Action(state)
}

// Decay multiplies ε by the Schedule decay while ε is above the
// Schedule minimum. ε is never decayed below the minimum.
func (p *EGreedy) Decay() {
	if p.epsilon > p.schedule.Min {
		p.epsilon *= p.schedule.Decay
		if p.epsilon < p.schedule.Min {
			p.epsilon = p.schedule.Min
		}
	}
}

// Epsilon returns the current exploration rate
func (p *EGreedy) Epsilon() float64 {
	return p.epsilon
}

// SetEpsilon sets the exploration rate, clipped to the Schedule
// minimum and 1
func (p *EGreedy) SetEpsilon(e float64) {
	if e < p.schedule.Min {
		e = p.schedule.Min
	}
	if e > 1 {
		e = 1
	}
	p.epsilon = e
}

// Schedule returns the exploration Schedule of the policy
func (p *EGreedy) Schedule() Schedule {
	return p.schedule
}

// Eval sets the policy to evaluation mode, in which it acts greedily
func (p *EGreedy) Eval() { p.eval = true }

// Train sets the policy to training mode, in which it explores
func (p *EGreedy) Train() { p.eval = false }

// IsEval indicates whether the policy is in evaluation mode
func (p *EGreedy) IsEval() bool { return p.eval }
