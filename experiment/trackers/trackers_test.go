package trackers

import (
	"path/filepath"
	"testing"

	"github.com/CKLiao0419/golf-q-learning/experiment/tracker"
	ts "github.com/CKLiao0419/golf-q-learning/timestep"
	"github.com/stretchr/testify/require"
)

// shot returns the first and last timesteps of a one-shot episode
func shot(reward float64) (ts.TimeStep, ts.TimeStep) {
	return ts.New(ts.First, 0, 0, 0), ts.New(ts.Last, reward, 0, 1)
}

func TestReturn(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "returns.gob")
	r := NewReturn(filename)
	require.Zero(t, r.RecentMean(10))

	for _, reward := range []float64{10, 20, 30, 40} {
		first, last := shot(reward)
		r.Track(first)
		r.Track(last)
	}
	require.Equal(t, 4, r.Episodes())
	require.Equal(t, []float64{10, 20, 30, 40}, r.Returns())
	require.Equal(t, 35.0, r.RecentMean(2))
	require.Equal(t, 25.0, r.RecentMean(100))

	require.NoError(t, r.Save())
	data, err := tracker.LoadData(filename)
	require.NoError(t, err)
	require.Equal(t, r.Returns(), data)

	t.Run("non-sequential timesteps panic", func(t *testing.T) {
		_, last := shot(1)
		require.Panics(t, func() { NewReturn("").Track(last) })
	})

	t.Run("multi-step episodes accumulate", func(t *testing.T) {
		r := NewReturn("")
		r.Track(ts.New(ts.First, 0, 0, 0))
		r.Track(ts.New(ts.Mid, 1, 0, 1))
		r.Track(ts.New(ts.Last, 2, 0, 2))
		require.Equal(t, []float64{3}, r.Returns())
		require.NoError(t, r.Save())
	})
}

func TestHits(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "hits.gob")
	h := NewHits(1000, filename)
	require.Zero(t, h.Rate())

	for _, reward := range []float64{1100, 50, 0, 1000} {
		first, last := shot(reward)
		h.Track(first)
		h.Track(last)
	}
	require.Equal(t, 2, h.Total())
	require.Equal(t, 0.5, h.Rate())

	require.NoError(t, h.Save())
	data, err := tracker.LoadData(filename)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0, 0, 1}, data)

	_, err = tracker.LoadData(filepath.Join(t.TempDir(), "missing.gob"))
	require.Error(t, err)
}
