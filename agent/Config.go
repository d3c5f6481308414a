package agent

import (
	"github.com/CKLiao0419/golf-q-learning/environment"
	"golang.org/x/exp/rand"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes. The
	// agent draws all of its random numbers from src.
	CreateAgent(env environment.Environment, src rand.Source) (Agent, error)

	// ValidAgent returns whether the argument agent is valid for the
	// Config
	ValidAgent(Agent) bool

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error
}

// ConfigList stores a number of Configs. A ConfigList is used to sweep
// over hyperparameter settings.
type ConfigList interface {
	// Len returns the number of Configs stored by the list
	Len() int

	// At returns the Config at index i
	At(i int) Config
}
