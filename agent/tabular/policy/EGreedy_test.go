package policy

import (
	"testing"

	"github.com/CKLiao0419/golf-q-learning/timestep"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func newTestPolicy(t *testing.T, states, actions int, s Schedule) *EGreedy {
	p, err := NewEGreedy(mat.NewDense(states, actions, nil), s,
		rand.NewSource(1))
	require.NoError(t, err)
	return p
}

func TestScheduleValidate(t *testing.T) {
	tests := []struct {
		name  string
		s     Schedule
		valid bool
	}{
		{"defaults", Schedule{1.0, 0.01, 0.9999997}, true},
		{"no exploration", Schedule{0, 0, 1}, true},
		{"start above one", Schedule{1.5, 0.01, 0.9}, false},
		{"minimum above start", Schedule{0.1, 0.2, 0.9}, false},
		{"zero decay", Schedule{1, 0.01, 0}, false},
		{"growing", Schedule{1, 0.01, 1.1}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.s.Validate()
			if test.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestEGreedyTieBreak(t *testing.T) {
	p := newTestPolicy(t, 3, 4, Schedule{0, 0, 1})

	// An all-zero row picks the first action
	require.Equal(t, 0, p.ChooseAction(0, false))

	p.weights.SetRow(1, []float64{1, 5, 5, 2})
	for i := 0; i < 10; i++ {
		require.Equal(t, 1, p.ChooseAction(1, false))
		require.Equal(t, 1, p.ChooseAction(1, true), "ε is zero")
	}
}

func TestEGreedyExplores(t *testing.T) {
	p := newTestPolicy(t, 1, 5, Schedule{1, 1, 1})
	p.weights.SetRow(0, []float64{0, 0, 10, 0, 0})

	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		a := p.ChooseAction(0, true)
		require.True(t, a >= 0 && a < 5)
		seen[a] = true
	}
	require.Len(t, seen, 5)

	// Exploitation ignores ε entirely
	require.Equal(t, 2, p.ChooseAction(0, false))
}

func TestEGreedyEvalMode(t *testing.T) {
	p := newTestPolicy(t, 2, 3, Schedule{1, 1, 1})
	p.weights.SetRow(1, []float64{0, 0, 1})
	step := timestep.New(timestep.First, 0, 1, 0)

	p.Eval()
	require.True(t, p.IsEval())
	for i := 0; i < 50; i++ {
		require.Equal(t, 2, p.SelectAction(step))
	}

	p.Train()
	require.False(t, p.IsEval())
	explored := false
	for i := 0; i < 50; i++ {
		explored = explored || p.SelectAction(step) != 2
	}
	require.True(t, explored)
}

func TestEGreedyDecay(t *testing.T) {
	t.Run("floors at the minimum", func(t *testing.T) {
		p := newTestPolicy(t, 1, 1, Schedule{1, 0.2, 0.5})
		want := []float64{0.5, 0.25, 0.2, 0.2, 0.2}
		for _, w := range want {
			p.Decay()
			require.InDelta(t, w, p.Epsilon(), 1e-12)
		}
	})

	t.Run("is monotone", func(t *testing.T) {
		p := newTestPolicy(t, 1, 1, Schedule{1, 0.01, 0.9999997})
		prev := p.Epsilon()
		for i := 0; i < 10_000; i++ {
			p.Decay()
			require.LessOrEqual(t, p.Epsilon(), prev)
			require.GreaterOrEqual(t, p.Epsilon(), 0.01)
			prev = p.Epsilon()
		}
	})

	t.Run("does nothing at the minimum", func(t *testing.T) {
		p := newTestPolicy(t, 1, 1, Schedule{0.01, 0.01, 0.5})
		p.Decay()
		require.Equal(t, 0.01, p.Epsilon())
	})
}

func TestEGreedySetEpsilon(t *testing.T) {
	p := newTestPolicy(t, 1, 1, Schedule{1, 0.1, 0.9})
	p.SetEpsilon(0.5)
	require.Equal(t, 0.5, p.Epsilon())
	p.SetEpsilon(0)
	require.Equal(t, 0.1, p.Epsilon())
	p.SetEpsilon(3)
	require.Equal(t, 1.0, p.Epsilon())
}

func TestEGreedySetWeights(t *testing.T) {
	p := newTestPolicy(t, 2, 2, Schedule{0, 0, 1})
	other := newTestPolicy(t, 2, 2, Schedule{0, 0, 1})
	other.weights.Set(1, 1, 3)

	require.NoError(t, p.SetWeights(other.Weights()))
	require.Equal(t, 3.0, p.Weights()[WeightsKey].At(1, 1))
	require.Equal(t, 1, p.GreedyPolicy.Action(1), "weights are shared")

	wrong := map[string]*mat.Dense{WeightsKey: mat.NewDense(3, 2, nil)}
	require.Error(t, p.SetWeights(wrong))
	require.Error(t, p.SetWeights(map[string]*mat.Dense{}))
}
