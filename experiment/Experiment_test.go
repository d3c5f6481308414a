package experiment

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CKLiao0419/golf-q-learning/agent/tabular/qlearning"
	"github.com/CKLiao0419/golf-q-learning/environment/golf"
	"github.com/CKLiao0419/golf-q-learning/experiment/tracker"
	"github.com/CKLiao0419/golf-q-learning/experiment/trackers"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func testConfig(t *testing.T, episodes int) Config {
	c := DefaultConfig()
	c.Episodes = episodes
	c.Seed = 3
	c.MonitorSeconds = 0
	c.ModelPath = filepath.Join(t.TempDir(), "q_table.gob")
	return c
}

func TestOnline(t *testing.T) {
	c := testConfig(t, 50)
	c.AgentConf.EpsilonDecay = 0.9

	returnsFile := filepath.Join(t.TempDir(), "returns.gob")
	returns := trackers.NewReturn(returnsFile)
	hits := trackers.NewHits(golf.HoleBonus, "")

	exp, q, err := c.CreateExp(0, c.Seed, []tracker.Tracker{returns}, nil)
	require.NoError(t, err)
	exp.Register(hits)

	require.NoError(t, exp.Run(context.Background()))
	require.Equal(t, 50, exp.Episodes())
	require.Len(t, exp.Returns(), 50)
	require.Equal(t, exp.Returns(), returns.Returns())
	require.LessOrEqual(t, hits.Total(), 50)

	for _, r := range exp.Returns() {
		require.GreaterOrEqual(t, r, 0.0)
		require.LessOrEqual(t, r, golf.MaxShapedReward+golf.HoleBonus)
	}

	// ε decays once per episode
	require.Equal(t, c.AgentConf.EpsilonMin, q.Epsilon())

	// The agent learned from every shot
	states, actions := q.Dims()
	nonZero := 0
	for s := 0; s < states; s++ {
		for a := 0; a < actions; a++ {
			if q.Value(s, a) != 0 {
				nonZero++
			}
		}
	}
	require.Positive(t, nonZero)

	require.NoError(t, exp.Save())
	data, err := tracker.LoadData(returnsFile)
	require.NoError(t, err)
	require.Equal(t, exp.Returns(), data)

	done, err := exp.RunEpisode()
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, 50, exp.Episodes(), "no episodes past the limit")
}

func TestOnlineDeterministic(t *testing.T) {
	c := testConfig(t, 30)

	a, _, err := c.CreateExp(0, 11, nil, nil)
	require.NoError(t, err)
	b, _, err := c.CreateExp(0, 11, nil, nil)
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background()))
	require.NoError(t, b.Run(context.Background()))
	require.Equal(t, a.Returns(), b.Returns())
}

func TestOnlineCancel(t *testing.T) {
	c := testConfig(t, 1000)
	exp, _, err := c.CreateExp(0, c.Seed, nil, nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := exp.RunEpisode()
		require.NoError(t, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = exp.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 5, exp.Episodes())
	require.Len(t, exp.Returns(), 5)
}

func TestOnlineCheckpoint(t *testing.T) {
	c := testConfig(t, 10)
	c.CheckpointEvery = 4
	c.CheckpointPath = filepath.Join(t.TempDir(), "ckpt", "latest.gob")

	exp, q, err := c.CreateExp(0, c.Seed, nil, nil)
	require.NoError(t, err)
	require.NoError(t, exp.Run(context.Background()))

	states, actions := q.Dims()
	restored, err := qlearning.New(states, actions, c.AgentConf,
		rand.NewSource(1))
	require.NoError(t, err)
	require.NoError(t, restored.LoadFile(c.CheckpointPath))
	require.Equal(t, c.AgentConf.EpsilonMin, restored.Epsilon())

	entries, err := os.ReadDir(filepath.Dir(c.CheckpointPath))
	require.NoError(t, err)
	require.Len(t, entries, 1, "checkpoints overwrite a single file")
}

func TestCheckpointNaming(t *testing.T) {
	// Ten episodes checkpointed every four leave checkpoints at episodes
	// four and eight
	run := func(t *testing.T, naming CheckpointNaming) []os.DirEntry {
		c := testConfig(t, 10)
		c.CheckpointEvery = 4
		c.CheckpointNaming = naming
		c.CheckpointPath = filepath.Join(t.TempDir(), "ckpt", "latest.gob")
		require.NoError(t, c.Validate())

		exp, _, err := c.CreateExp(0, c.Seed, nil, nil)
		require.NoError(t, err)
		require.NoError(t, exp.Run(context.Background()))

		entries, err := os.ReadDir(filepath.Dir(c.CheckpointPath))
		require.NoError(t, err)
		for _, e := range entries {
			info, err := e.Info()
			require.NoError(t, err)
			require.NotZero(t, info.Size(), e.Name())
		}
		return entries
	}

	t.Run("enumerate", func(t *testing.T) {
		entries := run(t, Enumerate)
		require.Len(t, entries, 2)
		require.Equal(t, "latest_1.gob", entries[0].Name())
		require.Equal(t, "latest_2.gob", entries[1].Name())
	})

	t.Run("timestamp", func(t *testing.T) {
		entries := run(t, Timestamp)
		require.NotEmpty(t, entries)
		for _, e := range entries {
			require.True(t, strings.HasPrefix(e.Name(), "latest-"), e.Name())
			require.True(t, strings.HasSuffix(e.Name(), ".gob"), e.Name())
		}
	})

	t.Run("later streams", func(t *testing.T) {
		c := testConfig(t, 0)
		c.CheckpointPath = filepath.Join("ckpt", "latest.gob")

		c.CheckpointNaming = Enumerate
		require.Equal(t, filepath.Join("ckpt", "latest.2_1.gob"),
			c.checkpointFilenames(2)())
		c.CheckpointNaming = Fixed
		require.Equal(t, filepath.Join("ckpt", "latest.gob.2"),
			c.checkpointFilenames(2)())
	})

	t.Run("unknown", func(t *testing.T) {
		c := testConfig(t, 10)
		c.CheckpointEvery = 4
		c.CheckpointPath = "latest.gob"
		c.CheckpointNaming = "Hourly"
		require.Error(t, c.Validate())
	})
}

func TestRunParallel(t *testing.T) {
	c := testConfig(t, 20)
	c.Sweep = &qlearning.ConfigList{
		LearningRate: []float64{0.1, 0.5},
		Discount:     []float64{0.95},
		EpsilonStart: []float64{1},
		EpsilonMin:   []float64{0.01},
		EpsilonDecay: []float64{0.99},
	}
	require.NoError(t, c.Validate())

	var exps []Experiment
	var onlines []*Online
	for i := range c.AgentConfigs() {
		exp, q, err := c.CreateExp(i, c.Seed+uint64(2*i), nil, nil)
		require.NoError(t, err)
		require.Equal(t, c.Sweep.Configs()[i].LearningRate,
			q.Config().LearningRate)
		exps = append(exps, exp)
		onlines = append(onlines, exp)
	}

	require.NoError(t, RunParallel(context.Background(), exps...))
	for _, o := range onlines {
		require.Equal(t, 20, o.Episodes())
	}

	_, _, err := c.CreateExp(2, 0, nil, nil)
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("partial file keeps defaults", func(t *testing.T) {
		filename := filepath.Join(dir, "partial.json")
		data := `{"Episodes": 10, "AgentConf": {"LearningRate": 0.5}}`
		require.NoError(t, os.WriteFile(filename, []byte(data), 0o644))

		c, err := LoadConfig(filename)
		require.NoError(t, err)
		require.Equal(t, 10, c.Episodes)
		require.Equal(t, 0.5, c.AgentConf.LearningRate)
		require.Equal(t, qlearning.DefaultEpsilonDecay, c.AgentConf.EpsilonDecay)
		require.Equal(t, golf.HoleBonus, c.EnvConf.HoleBonus)
	})

	t.Run("invalid values", func(t *testing.T) {
		filename := filepath.Join(dir, "invalid.json")
		data := `{"AgentConf": {"LearningRate": 0}}`
		require.NoError(t, os.WriteFile(filename, []byte(data), 0o644))
		_, err := LoadConfig(filename)
		require.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		filename := filepath.Join(dir, "malformed.json")
		require.NoError(t, os.WriteFile(filename, []byte("{"), 0o644))
		_, err := LoadConfig(filename)
		require.Error(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "missing.json"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
