package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/CKLiao0419/golf-q-learning/agent/tabular/qlearning"
	"github.com/CKLiao0419/golf-q-learning/experiment"
	"github.com/CKLiao0419/golf-q-learning/experiment/plot"
	"github.com/CKLiao0419/golf-q-learning/experiment/tracker"
	"github.com/CKLiao0419/golf-q-learning/experiment/trackers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

func main() {
	configFile := flag.String("config", "", "JSON experiment configuration")
	episodes := flag.Int("episodes", 0, "Number of training episodes")
	seed := flag.Uint64("seed", 0, "Seed of the random number generators")
	model := flag.String("model", "", "Where the trained model is saved")
	plotFile := flag.String("plot", "", "Where the learning curve is saved")
	resume := flag.Bool("resume", false, "Continue training a saved model")
	train := flag.Bool("train", true, "Train before the demo")
	demo := flag.Int("demo", 5, "Number of greedy demo shots")
	renderDir := flag.String("render", "shots", "Directory of rendered demo shots")
	level := flag.String("log-level", "info", "Log level")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	})
	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(lvl)

	config := experiment.DefaultConfig()
	if *configFile != "" {
		config, err = experiment.LoadConfig(*configFile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load configuration")
		}
	}

	// Flags override the configuration file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "episodes":
			config.Episodes = *episodes
		case "seed":
			config.Seed = *seed
		case "model":
			config.ModelPath = *model
		case "plot":
			config.PlotPath = *plotFile
		}
	})
	if err := config.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var trained *qlearning.QLearning
	if *train {
		trained, err = run(ctx, config, *resume)
		if errors.Is(err, context.Canceled) {
			log.Warn().Msg("Training interrupted")
			return
		} else if err != nil {
			log.Fatal().Err(err).Msg("training failed")
		}
	}

	if *demo > 0 {
		if err := runDemo(config, trained, *demo, *renderDir); err != nil {
			log.Fatal().Err(err).Msg("demo failed")
		}
	}
}

// run trains one agent per agent configuration, saves each agent and
// the learning curves, and returns the agent of the first stream
func run(ctx context.Context, c experiment.Config,
	resume bool) (*qlearning.QLearning, error) {
	configs := c.AgentConfigs()
	exps := make([]experiment.Experiment, len(configs))
	onlines := make([]*experiment.Online, len(configs))
	agents := make([]*qlearning.QLearning, len(configs))
	hits := make([]*trackers.Hits, len(configs))

	for i := range configs {
		var t []tracker.Tracker
		if c.ReturnsPath != "" {
			t = append(t, trackers.NewReturn(streamPath(c.ReturnsPath, i)))
		}
		hits[i] = trackers.NewHits(c.EnvConf.HoleBonus, "")
		t = append(t, hits[i])

		exp, q, err := c.CreateExp(i, c.Seed+uint64(2*i), t, nil)
		if err != nil {
			return nil, fmt.Errorf("run: %w", err)
		}

		if resume {
			err := q.LoadFile(streamPath(c.ModelPath, i))
			if err != nil && !errors.Is(err, qlearning.ErrNoSavedState) {
				return nil, fmt.Errorf("run: %w", err)
			}
		}

		exps[i], onlines[i], agents[i] = exp, exp, q
	}

	start := time.Now()
	runErr := experiment.RunParallel(ctx, exps...)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return nil, fmt.Errorf("run: %w", runErr)
	}
	log.Info().Msgf("Training finished in %v",
		time.Since(start).Truncate(time.Second))

	// Finished episodes are kept even if training was interrupted
	curves := make([]plot.Curve, len(configs))
	for i := range configs {
		if err := agents[i].SaveFile(streamPath(c.ModelPath, i)); err != nil {
			return nil, fmt.Errorf("run: %w", err)
		}
		if err := onlines[i].Save(); err != nil {
			return nil, fmt.Errorf("run: %w", err)
		}
		log.Info().Msgf("%s: %d holes in one in %d episodes (%.2f%%)",
			onlines[i].Name(), hits[i].Total(), onlines[i].Episodes(),
			hits[i].Rate()*100)
		curves[i] = plot.Curve{
			Name:    fmt.Sprintf("%s %+v", onlines[i].Name(), configs[i]),
			Returns: onlines[i].Returns(),
		}
	}

	if c.PlotPath != "" && onlines[0].Episodes() > 0 {
		err := plot.SaveLearningCurve(c.PlotPath, "Golf Q-Learning",
			c.PlotWindow, curves...)
		if err != nil {
			return nil, fmt.Errorf("run: %w", err)
		}
		log.Info().Msgf("Learning curve saved to %s", c.PlotPath)
	}

	return agents[0], runErr
}

// runDemo takes greedy shots at fresh holes, logging and rendering each
// shot. If q is nil, the agent is loaded from the model path.
func runDemo(c experiment.Config, q *qlearning.QLearning, shots int,
	renderDir string) error {
	env, _, err := c.EnvConf.Create(rand.NewSource(c.Seed + 1_000_003))
	if err != nil {
		return fmt.Errorf("runDemo: %w", err)
	}

	if q == nil {
		a, err := c.AgentConfigs()[0].CreateAgent(env, rand.NewSource(c.Seed))
		if err != nil {
			return fmt.Errorf("runDemo: %w", err)
		}
		q = a.(*qlearning.QLearning)
		if err := q.LoadFile(c.ModelPath); err != nil {
			return fmt.Errorf("runDemo: %w", err)
		}
	}
	q.Eval()

	for i := 0; i < shots; i++ {
		step := env.Reset()
		action := q.SelectAction(step)
		step, _, err := env.Step(action)
		if err != nil {
			return fmt.Errorf("runDemo: %w", err)
		}

		angle, force, _ := env.Actions().Decode(action)
		hole, ball := env.Hole(), env.Ball()
		log.Info().Msgf("Hole: (%.0f, %.0f) | Shot: %.1f° at %.0f%% | "+
			"Ball: (%.1f, %.1f) | Reward: %.2f", hole.X, hole.Y, angle,
			force*100, ball.X, ball.Y, step.Reward)

		if renderDir != "" {
			filename := filepath.Join(renderDir, fmt.Sprintf("shot_%03d.png", i))
			if err := os.MkdirAll(renderDir, 0o755); err != nil {
				return fmt.Errorf("runDemo: %w", err)
			}
			if err := env.SavePNG(filename); err != nil {
				return fmt.Errorf("runDemo: %w", err)
			}
		}
	}
	return nil
}

// streamPath returns the path of stream i's file. Streams other than
// the first are suffixed with their index.
func streamPath(path string, i int) string {
	if i == 0 {
		return path
	}
	return fmt.Sprintf("%s.%d", path, i)
}
