package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/CKLiao0419/golf-q-learning/agent"
	env "github.com/CKLiao0419/golf-q-learning/environment"
	"github.com/CKLiao0419/golf-q-learning/experiment/checkpointer"
	"github.com/CKLiao0419/golf-q-learning/experiment/tracker"
	"github.com/CKLiao0419/golf-q-learning/experiment/trackers"
	ts "github.com/CKLiao0419/golf-q-learning/timestep"
	"github.com/CKLiao0419/golf-q-learning/utils/progressbar"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultMonitorEvery is the default time between progress reports
	DefaultMonitorEvery = 5 * time.Second

	// DefaultMonitorWindow is the default number of recent episodes
	// averaged in progress reports
	DefaultMonitorWindow = 1000
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed. The episodic return of every episode is
// always tracked, and progress is reported through the logger at a
// fixed wall-clock interval.
//
// If the agent is an agent.Explorer, its exploration rate is decayed
// at the end of every episode.
type Online struct {
	name string
	env.Environment
	agent.Agent
	episodes       int
	currentEpisode int

	returns       *trackers.Return
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer

	monitorEvery  time.Duration
	monitorWindow int
	lastMonitor   time.Time
	bar           *progressbar.ManualProgressBar
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The episodes parameter determines how
// many episodes the experiment is run for, the t parameter is a slice
// of tracker.Tracker which determine what data is saved, and the c
// parameter is a slice of checkpointer.Checkpointer which save the
// agent during the experiment.
func NewOnline(name string, e env.Environment, a agent.Agent, episodes int,
	t []tracker.Tracker, c []checkpointer.Checkpointer) *Online {
	return &Online{
		name:          name,
		Environment:   e,
		Agent:         a,
		episodes:      episodes,
		returns:       trackers.NewReturn(""),
		trackers:      t,
		checkpointers: c,
		monitorEvery:  DefaultMonitorEvery,
		monitorWindow: DefaultMonitorWindow,
	}
}

// SetMonitor sets the time between progress reports and the number of
// recent episodes whose returns are averaged in each report. A
// non-positive every disables periodic reports.
func (o *Online) SetMonitor(every time.Duration, window int) {
	o.monitorEvery = every
	o.monitorWindow = window
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Name returns the name of the experiment used in log lines
func (o *Online) Name() string {
	return o.name
}

// Episodes returns the number of finished episodes
func (o *Online) Episodes() int {
	return o.currentEpisode
}

// Returns returns the return of each finished episode
func (o *Online) Returns() []float64 {
	return o.returns.Returns()
}

// RunEpisode runs a single episode of the experiment and returns
// whether or not the episode limit has been reached
func (o *Online) RunEpisode() (bool, error) {
	if o.currentEpisode >= o.episodes {
		return true, nil
	}

	step := o.Environment.Reset()
	o.Agent.ObserveFirst(step)
	o.track(step)

	for !step.Last() {
		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		next, _, err := o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: episode %d: %w",
				o.currentEpisode, err)
		}
		step = next

		// Cache the environment step in each Tracker
		o.track(step)

		// Observe the timestep and step the agent
		o.Agent.Observe(action, step)
		o.Agent.Step()
	}

	o.currentEpisode++
	if explorer, ok := o.Agent.(agent.Explorer); ok {
		explorer.DecayExploration()
	}

	if err := o.checkpoint(); err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}

	return o.currentEpisode >= o.episodes, nil
}

// Run runs the experiment until all episodes have finished or ctx is
// done. If ctx is done first, its error is returned and the finished
// episodes remain tracked.
func (o *Online) Run(ctx context.Context) error {
	o.bar = progressbar.NewManualProgressBar(20, o.episodes)
	o.bar.Set(o.currentEpisode)
	o.lastMonitor = time.Now()
	log.Info().Msgf("%s: training for %d episodes", o.name,
		o.episodes-o.currentEpisode)

	ended := o.currentEpisode >= o.episodes
	for !ended {
		if err := ctx.Err(); err != nil {
			o.monitor()
			return fmt.Errorf("run: stopped after %d episodes: %w",
				o.currentEpisode, err)
		}

		var err error
		ended, err = o.RunEpisode()
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		o.bar.Increment()

		if o.monitorEvery > 0 && time.Since(o.lastMonitor) >= o.monitorEvery {
			o.monitor()
		}
	}

	o.monitor()
	return nil
}

// monitor logs the progress of the experiment
func (o *Online) monitor() {
	o.lastMonitor = time.Now()

	event := log.Info().
		Str("stream", o.name).
		Int("episode", o.currentEpisode).
		Float64("avg_reward", o.returns.RecentMean(o.monitorWindow))
	if explorer, ok := o.Agent.(agent.Explorer); ok {
		event = event.Float64("epsilon", explorer.Epsilon())
	}
	if o.bar != nil {
		event.Msg(o.bar.String())
		return
	}
	event.Send()
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	o.returns.Track(t)
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}

// checkpoint passes the number of finished episodes to each
// Checkpointer
func (o *Online) checkpoint() error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(o.currentEpisode); err != nil {
			return err
		}
	}
	return nil
}
