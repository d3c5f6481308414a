// Package envconfig provides configuration structs for configuring
// the golf environment with default physical parameters and task.
// Environment configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	env "github.com/CKLiao0419/golf-q-learning/environment"
	"github.com/CKLiao0419/golf-q-learning/environment/golf"
	ts "github.com/CKLiao0419/golf-q-learning/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r1"
)

// HoleDistribution names the distribution from which holes are placed
type HoleDistribution string

const (
	// Holes are placed at integer pixel positions
	Integer HoleDistribution = "Integer"

	// Holes are placed anywhere within their bounds
	Continuous HoleDistribution = "Continuous"
)

// Config implements a specific configuration of the golf environment
// and its putting task. Hole bounds are half-open, [Min, Max).
type Config struct {
	Course golf.Course

	HoleX, HoleY r1.Interval
	Holes        HoleDistribution
	HoleRadius   float64
	HoleBonus    float64

	CellSize float64

	NumAngles          int
	MinAngle, MaxAngle float64
	NumForces          int
	MinForce, MaxForce float64
}

// Default returns the default configuration of the golf environment
func Default() Config {
	return Config{
		Course: golf.DefaultCourse(),
		HoleX: r1.Interval{
			Min: float64(golf.HoleMinX),
			Max: float64(golf.HoleMaxX),
		},
		HoleY: r1.Interval{
			Min: float64(golf.HoleMinY),
			Max: float64(golf.HoleMaxY),
		},
		Holes:      Integer,
		HoleRadius: golf.HoleRadius,
		HoleBonus:  golf.HoleBonus,
		CellSize:   golf.CellSize,
		NumAngles:  golf.NumAngles,
		MinAngle:   golf.MinAngle,
		MaxAngle:   golf.MaxAngle,
		NumForces:  golf.NumForces,
		MinForce:   golf.MinForce,
		MaxForce:   golf.MaxForce,
	}
}

// Validate returns an error if the Config cannot create an environment
func (c Config) Validate() error {
	if err := c.Course.Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if c.HoleX.Min >= c.HoleX.Max || c.HoleY.Min >= c.HoleY.Max {
		return fmt.Errorf("validate: empty hole bounds x ∈ [%v, %v), "+
			"y ∈ [%v, %v)", c.HoleX.Min, c.HoleX.Max, c.HoleY.Min,
			c.HoleY.Max)
	}
	if c.HoleX.Min < 0 || c.HoleX.Max > c.Course.Width ||
		c.HoleY.Min < 0 || c.HoleY.Max > c.Course.Height {
		return fmt.Errorf("validate: hole bounds outside of course")
	}
	if c.Holes != Integer && c.Holes != Continuous {
		return fmt.Errorf("validate: unknown hole distribution %q", c.Holes)
	}
	if c.NumAngles < 1 || c.NumForces < 1 {
		return fmt.Errorf("validate: there must be at least one angle " +
			"and force")
	}
	return nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment. Holes are placed using random
// numbers drawn from src.
func (c Config) Create(src rand.Source) (*golf.Golf, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	starter, err := c.starter(src)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	task, err := golf.NewPutt(starter, c.HoleRadius, c.HoleBonus)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	actions, err := golf.NewActionSpace(
		span(c.NumAngles, c.MinAngle, c.MaxAngle),
		span(c.NumForces, c.MinForce, c.MaxForce),
	)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	states, err := golf.NewStateSpace(c.Course.Width, c.Course.Height,
		c.CellSize)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	g, step, err := golf.New(task, actions, states, c.Course)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}
	return g, step, nil
}

// starter returns the Starter which places holes
func (c Config) starter(src rand.Source) (env.Starter, error) {
	if c.Holes == Continuous {
		return env.NewUniformStarter([]r1.Interval{c.HoleX, c.HoleY}, src),
			nil
	}

	return env.NewCategoricalStarter([]env.IntRange{
		{Min: int(c.HoleX.Min), Max: int(c.HoleX.Max)},
		{Min: int(c.HoleY.Min), Max: int(c.HoleY.Max)},
	}, src)
}

// span returns n evenly spaced values over [min, max]. If n is one,
// only min is returned.
func span(n int, min, max float64) []float64 {
	if n == 1 {
		return []float64{min}
	}
	return floats.Span(make([]float64, n), min, max)
}
