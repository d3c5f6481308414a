// Package progressbar implements functionality of formatting a progress
// bar for display in a terminal window or a log line
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ManualProgressBar implement progress bar functionality that must
// be manually managed. That is, the Display() or String() function must
// be called whenever an updated progress bar should be shown.
//
// ManualProgressBar does not use concurrency.
type ManualProgressBar struct {
	width           float64
	maxProgress     float64
	currentProgress float64
	bar             strings.Builder
	startTime       time.Time
}

// NewManualProgressBar returns a new ManualProgressBar that is width
// characters wide and reaches 100% after max calls to Increment()
func NewManualProgressBar(width, max int) *ManualProgressBar {
	if max < 1 {
		max = 1
	}
	return &ManualProgressBar{
		width:           float64(width),
		maxProgress:     float64(max),
		currentProgress: 0,
		startTime:       time.Now(),
	}
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ManualProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Set sets the progress counter, clipped to [0, max]
func (p *ManualProgressBar) Set(progress int) {
	p.currentProgress = float64(progress)
	if p.currentProgress > p.maxProgress {
		p.currentProgress = p.maxProgress
	} else if p.currentProgress < 0 {
		p.currentProgress = 0
	}
}

// Percent returns the current progress as a percentage
func (p *ManualProgressBar) Percent() float64 {
	return p.currentProgress / p.maxProgress * 100
}

// Elapsed returns the time since the progress bar was created
func (p *ManualProgressBar) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

// String returns the progress bar, its percentage, and the elapsed time
func (p *ManualProgressBar) String() string {
	p.bar.Reset()
	p.bar.WriteString("|")

	currentProg := p.currentProgress / p.maxProgress * p.width
	for i := 0.0; i < currentProg; i++ {
		p.bar.WriteString("█")
	}
	for i := currentProg; i < p.width; i++ {
		p.bar.WriteString(" ")
	}
	p.bar.WriteString(fmt.Sprintf("| [%.2f%v | elapsed: %v]",
		p.Percent(), "%", p.Elapsed().Truncate(time.Second)))

	return p.bar.String()
}

// Display overwrites the current terminal line of w with the progress
// bar
func (p *ManualProgressBar) Display(w io.Writer) {
	fmt.Fprintf(w, "\n\033[1A\033[K%v", p.String())
}
