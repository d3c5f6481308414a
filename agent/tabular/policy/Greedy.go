package policy

import (
	"github.com/CKLiao0419/golf-q-learning/timestep"
	"github.com/CKLiao0419/golf-q-learning/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// Greedy implements a greedy policy over a table of action values
type Greedy struct {
	weights *mat.Dense
}

// NewGreedy creates a new Greedy policy over the argument weights,
// which have one row per state and one column per action
func NewGreedy(weights *mat.Dense) *Greedy {
	return &Greedy{weights}
}

// Weights gets and returns the weights of the Greedy policy as a
// string description -> weights
func (p *Greedy) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights[WeightsKey] = p.weights

	return weights
}

// SelectAction selects an action from the greedy policy
func (p *Greedy) SelectAction(t timestep.TimeStep) int {
	return p.Action(t.Observation)
}

// Action returns the action with the largest value in the argument
// state. Ties are broken in favour of the lowest action index.
func (p *Greedy) Action(state int) int {
	return matutils.MaxVec(p.weights.RowView(state))
}

// Eval is a no-op, a Greedy policy is always in evaluation mode
func (p *Greedy) Eval() {}

// Train is a no-op, a Greedy policy is always in evaluation mode
func (p *Greedy) Train() {}

// IsEval returns true
func (p *Greedy) IsEval() bool { return true }
