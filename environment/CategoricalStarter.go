package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// IntRange is a half-open range of integers [Min, Max)
type IntRange struct {
	Min, Max int
}

// CategoricalStarter returns starting states as vectors of integers
// sampled uniformly from a half-open range in each dimension
type CategoricalStarter struct {
	offsets []float64
	rand    []distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter, sampling
// dimension i uniformly from [bounds[i].Min, bounds[i].Max)
func NewCategoricalStarter(bounds []IntRange,
	src rand.Source) (CategoricalStarter, error) {
	offsets := make([]float64, len(bounds))
	rand := make([]distuv.Categorical, len(bounds))
	for i, b := range bounds {
		n := b.Max - b.Min
		if n < 1 {
			return CategoricalStarter{}, fmt.Errorf("newCategoricalStarter: "+
				"empty range [%v, %v) in dimension %v", b.Min, b.Max, i)
		}

		// Create the weights for the uniform categorical distribution
		weights := make([]float64, n)
		for j := range weights {
			weights[j] = 1.0 / float64(n)
		}

		offsets[i] = float64(b.Min)
		rand[i] = distuv.NewCategorical(weights, src)
	}

	return CategoricalStarter{offsets, rand}, nil
}

// Start returns a starting state vector
func (c CategoricalStarter) Start() mat.Vector {
	start := make([]float64, len(c.rand))
	for i := range start {
		start[i] = c.offsets[i] + c.rand[i].Rand()
	}
	return mat.NewVecDense(len(start), start)
}
