package qlearning

import (
	"fmt"

	"github.com/CKLiao0419/golf-q-learning/agent"
	"github.com/CKLiao0419/golf-q-learning/agent/tabular/policy"
	"github.com/CKLiao0419/golf-q-learning/environment"
	"github.com/CKLiao0419/golf-q-learning/utils/intutils"
	"golang.org/x/exp/rand"
)

// Default hyperparameters
const (
	DefaultLearningRate float64 = 0.17
	DefaultDiscount     float64 = 0.95
	DefaultEpsilonStart float64 = 1.0
	DefaultEpsilonMin   float64 = 0.01
	DefaultEpsilonDecay float64 = 0.9999997
)

// Config represents a configuration for the QLearning agent
type Config struct {
	LearningRate float64
	Discount     float64 // stored but unused, episodes are one step long
	EpsilonStart float64
	EpsilonMin   float64
	EpsilonDecay float64
}

// DefaultConfig returns the default QLearning configuration
func DefaultConfig() Config {
	return Config{
		LearningRate: DefaultLearningRate,
		Discount:     DefaultDiscount,
		EpsilonStart: DefaultEpsilonStart,
		EpsilonMin:   DefaultEpsilonMin,
		EpsilonDecay: DefaultEpsilonDecay,
	}
}

// Schedule returns the exploration schedule described by the Config
func (c Config) Schedule() policy.Schedule {
	return policy.Schedule{
		Start: c.EpsilonStart,
		Min:   c.EpsilonMin,
		Decay: c.EpsilonDecay,
	}
}

// CreateAgent creates the agent from the Config. The value table has
// one row per observation and one column per action of env, and is
// initialized to zero.
func (c Config) CreateAgent(env environment.Environment,
	src rand.Source) (agent.Agent, error) {
	states := env.ObservationSpec().Values()
	actions := env.ActionSpec().Values()

	return New(states, actions, c, src)
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*QLearning)
	return ok
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if !(c.LearningRate > 0 && c.LearningRate <= 1) {
		return fmt.Errorf("learning rate %v ∉ (0, 1]", c.LearningRate)
	}
	if !(c.Discount >= 0 && c.Discount <= 1) {
		return fmt.Errorf("discount %v ∉ [0, 1]", c.Discount)
	}
	return c.Schedule().Validate()
}

// ConfigList implements functionality for storing a number of Config's
// in a simple manner. Instead of storing a slice of Configs, the
// ConfigList stores each field's values and constructs the list by
// every combination of field values.
type ConfigList struct {
	LearningRate []float64
	Discount     []float64
	EpsilonStart []float64
	EpsilonMin   []float64
	EpsilonDecay []float64
}

func (c ConfigList) fields() [][]float64 {
	return [][]float64{
		c.LearningRate,
		c.Discount,
		c.EpsilonStart,
		c.EpsilonMin,
		c.EpsilonDecay,
	}
}

// Len returns the number of Configs stored by the list
func (c ConfigList) Len() int {
	lens := make([]int, 0, 5)
	for _, f := range c.fields() {
		lens = append(lens, len(f))
	}
	return intutils.Prod(lens...)
}

// At returns the Config at index i. The learning rate varies fastest.
func (c ConfigList) At(i int) agent.Config {
	return c.config(i)
}

func (c ConfigList) config(i int) Config {
	if i < 0 || i >= c.Len() {
		panic(fmt.Sprintf("at: index %d out of range [0, %d)", i, c.Len()))
	}

	fields := c.fields()
	values := make([]float64, len(fields))
	for j, f := range fields {
		values[j] = f[i%len(f)]
		i /= len(f)
	}

	return Config{
		LearningRate: values[0],
		Discount:     values[1],
		EpsilonStart: values[2],
		EpsilonMin:   values[3],
		EpsilonDecay: values[4],
	}
}

// Configs returns every Config stored by the list
func (c ConfigList) Configs() []Config {
	configs := make([]Config, c.Len())
	for i := range configs {
		configs[i] = c.config(i)
	}
	return configs
}
