// Package plot renders learning curves of experiments as interactive
// HTML charts
package plot

import (
	"fmt"
	"io"

	"github.com/CKLiao0419/golf-q-learning/utils/fileutils"
	"github.com/CKLiao0419/golf-q-learning/utils/floatutils"
	"github.com/CKLiao0419/golf-q-learning/utils/intutils"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// MaxPoints is the largest number of points drawn per curve. Longer
// curves are subsampled at a fixed stride.
const MaxPoints = 2000

// Curve is a named sequence of episodic returns
type Curve struct {
	Name    string
	Returns []float64
}

// LearningCurve renders the moving average of the returns of each
// curve as a line chart in an HTML page written to w. The window is
// clipped to the length of each curve. Each point is labelled with the
// last episode of its window, and all curves share the episode axis of
// the longest curve.
func LearningCurve(w io.Writer, title string, window int,
	curves ...Curve) error {
	if len(curves) == 0 {
		return fmt.Errorf("learningCurve: no curves to plot")
	}
	if window < 1 {
		return fmt.Errorf("learningCurve: window must be positive")
	}

	episodes := 0
	for _, c := range curves {
		episodes = intutils.Max(episodes, len(c.Returns))
	}
	if episodes == 0 {
		return fmt.Errorf("learningCurve: no episodes to plot")
	}
	n := intutils.Min(window, episodes)
	points := episodes - n + 1
	stride := (points + MaxPoints - 1) / MaxPoints

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("Moving average over %d episodes", window),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Theme:     "shine",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Episode"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Reward"}),
	)

	var xs []string
	for i := 0; i < points; i += stride {
		xs = append(xs, fmt.Sprintf("%d", i+n))
	}
	line = line.SetXAxis(xs)

	for _, c := range curves {
		avg := floatutils.MovingAverage(c.Returns, window)
		items := make([]opts.LineData, 0, len(xs))
		for i := 0; i < len(avg); i += stride {
			items = append(items, opts.LineData{Value: avg[i]})
		}
		line.AddSeries(c.Name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("learningCurve: %w", err)
	}
	return nil
}

// SaveLearningCurve atomically writes the learning curve to filename
func SaveLearningCurve(filename, title string, window int,
	curves ...Curve) error {
	return fileutils.WriteAtomic(filename, func(w io.Writer) error {
		return LearningCurve(w, title, window, curves...)
	})
}
