package environment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestUniformStarter(t *testing.T) {
	bounds := []r1.Interval{{Min: 50, Max: 350}, {Min: 50, Max: 280}}

	t.Run("samples within bounds", func(t *testing.T) {
		s := NewUniformStarter(bounds, rand.NewSource(11))
		for i := 0; i < 1000; i++ {
			start := s.Start()
			require.Equal(t, 2, start.Len())
			for j, b := range bounds {
				require.GreaterOrEqual(t, start.AtVec(j), b.Min)
				require.LessOrEqual(t, start.AtVec(j), b.Max)
			}
		}
	})

	t.Run("equal seeds give equal draws", func(t *testing.T) {
		s1 := NewUniformStarter(bounds, rand.NewSource(5))
		s2 := NewUniformStarter(bounds, rand.NewSource(5))
		for i := 0; i < 20; i++ {
			a, b := s1.Start(), s2.Start()
			require.Equal(t, a.AtVec(0), b.AtVec(0))
			require.Equal(t, a.AtVec(1), b.AtVec(1))
		}
	})
}

func TestCategoricalStarter(t *testing.T) {
	t.Run("samples integers in half-open ranges", func(t *testing.T) {
		bounds := []IntRange{{Min: 50, Max: 53}, {Min: -2, Max: 0}}
		s, err := NewCategoricalStarter(bounds, rand.NewSource(3))
		require.NoError(t, err)

		seen := make(map[float64]bool)
		for i := 0; i < 500; i++ {
			start := s.Start()
			x, y := start.AtVec(0), start.AtVec(1)
			require.Equal(t, math.Trunc(x), x)
			require.GreaterOrEqual(t, x, 50.0)
			require.Less(t, x, 53.0)
			require.GreaterOrEqual(t, y, -2.0)
			require.Less(t, y, 0.0)
			seen[x] = true
		}
		require.Len(t, seen, 3, "every value in range should be drawn")
	})

	t.Run("rejects empty ranges", func(t *testing.T) {
		_, err := NewCategoricalStarter([]IntRange{{Min: 4, Max: 4}},
			rand.NewSource(1))
		require.Error(t, err)
	})
}

func TestIndexSpec(t *testing.T) {
	s := NewIndexSpec(Action, 663)
	require.Equal(t, Discrete, s.Cardinality)
	require.Equal(t, 663, s.Values())

	require.Panics(t, func() { NewIndexSpec(Observation, 0) })
}
