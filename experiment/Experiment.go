// Package experiment implements functionality for running an experiment
package experiment

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CKLiao0419/golf-q-learning/agent/tabular/qlearning"
	"github.com/CKLiao0419/golf-q-learning/environment/envconfig"
	"github.com/CKLiao0419/golf-q-learning/experiment/checkpointer"
	"github.com/CKLiao0419/golf-q-learning/experiment/tracker"
	ts "github.com/CKLiao0419/golf-q-learning/timestep"
	"golang.org/x/exp/rand"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments will track environment TimeSteps, caching each TimeStep
// in RAM to be later saved to disk. The Save() function
// will then take all cached data and save it to disk. This is usually
// performed after an experiment has been run. The Run() method will
// run all episodes until the episode limit is reached or the context
// is done. The RunEpisode() function will run a single episode.
//
// In order to save data, Experiments use Trackers. Trackers determine
// which data generated during the experiment is saved. Experiments will
// send each TimeStep to Trackers using the Tracker's Track() method.
// New Trackers can be registered with an Experiment through the
// constructor or through an Experiment's Register() function.
type Experiment interface {
	Run(ctx context.Context) error

	// Returns whether or not the episode limit has been reached
	RunEpisode() (bool, error)

	// Tracks current timestep by sending it to Trackers
	track(ts.TimeStep)

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)

	// Saves the current state of all agents
	checkpoint() error
}

// CheckpointNaming determines the files that checkpoints are saved to
type CheckpointNaming string

const (
	// Fixed overwrites CheckpointPath with each checkpoint
	Fixed CheckpointNaming = "Fixed"

	// Enumerate saves the k-th checkpoint to CheckpointPath with _k
	// inserted before its extension
	Enumerate CheckpointNaming = "Enumerate"

	// Timestamp saves each checkpoint to CheckpointPath with the UTC
	// time of the checkpoint inserted before its extension
	Timestamp CheckpointNaming = "Timestamp"
)

// Config represents a configuration of an experiment. Configs are JSON
// serializable.
type Config struct {
	Episodes int
	Seed     uint64

	MonitorSeconds float64 // Time between progress reports
	MonitorWindow  int     // Episodes averaged in progress reports

	CheckpointEvery int    // Episodes between checkpoints, 0 disables
	CheckpointPath  string // Base name of checkpoint files

	// CheckpointNaming names the checkpoint files, Fixed if empty
	CheckpointNaming CheckpointNaming `json:",omitempty"`

	ModelPath   string // Where the trained agent is saved
	ReturnsPath string // Where episodic returns are saved, if not empty
	PlotPath    string // Where the learning curve is rendered, if not empty
	PlotWindow  int    // Moving average window of the learning curve

	EnvConf   envconfig.Config
	AgentConf qlearning.Config

	// Sweep, if set, replaces AgentConf with every combination of its
	// hyperparameters, each trained in its own stream
	Sweep *qlearning.ConfigList `json:",omitempty"`
}

// DefaultConfig returns the default experiment configuration
func DefaultConfig() Config {
	return Config{
		Episodes:         1_000_000,
		Seed:             0,
		MonitorSeconds:   DefaultMonitorEvery.Seconds(),
		MonitorWindow:    DefaultMonitorWindow,
		CheckpointNaming: Fixed,
		ModelPath:        "models/q_table.gob",
		PlotPath:         "models/learning_curve.html",
		PlotWindow:       10_000,
		EnvConf:          envconfig.Default(),
		AgentConf:        qlearning.DefaultConfig(),
	}
}

// LoadConfig reads a JSON Config from filename. Fields missing from
// the file keep their default values.
func LoadConfig(filename string) (Config, error) {
	c := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %s: %w", filename, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %s: %w", filename, err)
	}
	return c, nil
}

// Validate returns an error if the Config does not describe a runnable
// experiment
func (c Config) Validate() error {
	if c.Episodes < 0 {
		return fmt.Errorf("validate: episodes cannot be negative")
	}
	if c.CheckpointEvery < 0 {
		return fmt.Errorf("validate: checkpoint interval cannot be negative")
	}
	if c.CheckpointEvery > 0 && c.CheckpointPath == "" {
		return fmt.Errorf("validate: checkpointing requires a path")
	}
	switch c.CheckpointNaming {
	case "", Fixed, Enumerate, Timestamp:
	default:
		return fmt.Errorf("validate: unknown checkpoint naming %q",
			c.CheckpointNaming)
	}
	if err := c.EnvConf.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	for i, a := range c.AgentConfigs() {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("validate: agent %d: %w", i, err)
		}
	}
	if c.Sweep != nil && c.Sweep.Len() == 0 {
		return fmt.Errorf("validate: empty sweep")
	}
	return nil
}

// AgentConfigs returns the agent configuration of every stream
func (c Config) AgentConfigs() []qlearning.Config {
	if c.Sweep != nil {
		return c.Sweep.Configs()
	}
	return []qlearning.Config{c.AgentConf}
}

// MonitorEvery returns the time between progress reports
func (c Config) MonitorEvery() time.Duration {
	return time.Duration(c.MonitorSeconds * float64(time.Second))
}

// CreateExp creates the experiment of stream i. The environment draws
// random numbers from a source seeded with seed, and the agent from a
// source seeded with seed + 1. The agent is returned along with the
// experiment so that it can be saved once the experiment has finished.
func (c Config) CreateExp(i int, seed uint64, t []tracker.Tracker,
	check []checkpointer.Checkpointer) (*Online, *qlearning.QLearning, error) {
	configs := c.AgentConfigs()
	if i < 0 || i >= len(configs) {
		return nil, nil, fmt.Errorf("createExp: no agent configuration %d", i)
	}

	env, _, err := c.EnvConf.Create(rand.NewSource(seed))
	if err != nil {
		return nil, nil, fmt.Errorf("createExp: could not create "+
			"environment: %w", err)
	}

	a, err := configs[i].CreateAgent(env, rand.NewSource(seed+1))
	if err != nil {
		return nil, nil, fmt.Errorf("createExp: could not create agent: %w",
			err)
	}
	q := a.(*qlearning.QLearning)

	if c.CheckpointEvery > 0 {
		n, err := checkpointer.NewNStep(c.CheckpointEvery, q,
			c.checkpointFilenames(i))
		if err != nil {
			return nil, nil, fmt.Errorf("createExp: %w", err)
		}
		check = append(check, n)
	}

	name := fmt.Sprintf("stream %d", i)
	exp := NewOnline(name, env, q, c.Episodes, t, check)
	exp.SetMonitor(c.MonitorEvery(), c.MonitorWindow)
	return exp, q, nil
}

// checkpointFilenames returns the function naming the checkpoint files
// of stream i. Streams other than the first are suffixed with their
// index.
func (c Config) checkpointFilenames(i int) func() string {
	ext := filepath.Ext(c.CheckpointPath)
	base := strings.TrimSuffix(c.CheckpointPath, ext)
	if i > 0 {
		base = fmt.Sprintf("%s.%d", base, i)
	}

	switch c.CheckpointNaming {
	case Enumerate:
		return checkpointer.FilenameEnumerator(0, base+"_", ext)
	case Timestamp:
		return checkpointer.FileTimer(base, ext)
	default:
		if i > 0 {
			return checkpointer.Fixed(fmt.Sprintf("%s.%d", c.CheckpointPath, i))
		}
		return checkpointer.Fixed(c.CheckpointPath)
	}
}
