package golf

import (
	"fmt"
	"math"

	"github.com/CKLiao0419/golf-q-learning/environment"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	HoleRadius float64 = 13
	HoleBonus  float64 = 1000

	// Shaped reward: MaxShapedReward - distance / DistanceScale, floored
	// at zero
	MaxShapedReward float64 = 100
	DistanceScale   float64 = 3
)

// Hole positions are drawn from [HoleMinX, HoleMaxX) x [HoleMinY, HoleMaxY),
// keeping the hole away from the side walls and in the upper part of
// the course
const (
	HoleMinX int = 50
	HoleMaxX int = int(ScreenWidth) - 50
	HoleMinY int = 50
	HoleMaxY int = 280
)

// Putt implements the task of bringing the ball to rest in the hole.
//
// Rewards are shaped by the distance d between the resting ball and
// the hole:
//
//	reward = max(0, 100 - d/3) + (1000 if d < HoleRadius)
//
// Each episode is a single shot, after which the episode ends.
type Putt struct {
	environment.Starter
	holeRadius float64
	bonus      float64
}

// NewPutt returns a new Putt task. Hole positions are sampled from the
// Starter.
func NewPutt(s environment.Starter, holeRadius, bonus float64) (*Putt, error) {
	if !(holeRadius > 0) {
		return nil, fmt.Errorf("newPutt: hole radius must be positive, got %v",
			holeRadius)
	}
	if bonus < 0 {
		return nil, fmt.Errorf("newPutt: bonus cannot be negative, got %v",
			bonus)
	}
	return &Putt{s, holeRadius, bonus}, nil
}

// GetReward returns the reward for a ball resting at position ball
// when the hole is at position hole
func (p *Putt) GetReward(ball, hole r2.Vec) float64 {
	d := distance(ball, hole)
	reward := math.Max(0, MaxShapedReward-d/DistanceScale)
	if d < p.holeRadius {
		reward += p.bonus
	}
	return reward
}

// AtGoal returns whether a ball resting at position ball is in the
// hole at position hole
func (p *Putt) AtGoal(ball, hole r2.Vec) bool {
	return distance(ball, hole) < p.holeRadius
}

// HoleRadius returns the radius of the hole
func (p *Putt) HoleRadius() float64 { return p.holeRadius }

// Min returns the minimum attainable reward
func (p *Putt) Min() float64 { return 0.0 }

// Max returns the maximum attainable reward
func (p *Putt) Max() float64 { return MaxShapedReward + p.bonus }

// RewardSpec returns the reward specification of the Task
func (p *Putt) RewardSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{p.Min()})
	upperBound := mat.NewVecDense(1, []float64{p.Max()})

	return environment.NewSpec(shape, environment.Reward, lowerBound,
		upperBound, environment.Continuous)
}

// distance returns the Euclidean distance between two positions
func distance(a, b r2.Vec) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
