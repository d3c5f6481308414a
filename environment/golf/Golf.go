// Package golf implements a one-shot mini golf environment.
//
// In this environment, the agent takes a single shot at a ball resting
// at a fixed starting position near the bottom of a rectangular
// course. A hole is placed at random in the upper part of the course
// at the start of each episode. The ball rolls in a straight line,
// slowing down under friction and bouncing elastically off the walls,
// until it comes to rest. The episode then ends, and the agent is
// rewarded based on how close to the hole the ball came to rest.
//
// Observations are the grid cell of the hole as given by a StateSpace.
// Actions are indices into an ActionSpace of (angle, force) shots.
package golf

import (
	"fmt"
	"math"

	"github.com/CKLiao0419/golf-q-learning/environment"
	ts "github.com/CKLiao0419/golf-q-learning/timestep"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	ScreenWidth  float64 = 400
	ScreenHeight float64 = 600

	BallRadius float64 = 7
	StartX     float64 = ScreenWidth / 2
	StartY     float64 = 500

	Friction      float64 = 0.96 // Velocity multiplier per tick
	MinVelocity   float64 = 0.5  // Ball is at rest below this speed
	MaxPowerSpeed float64 = 25   // Initial speed of a full-force shot

	// MaxTicks bounds the number of simulation ticks of a shot. With the
	// default physics a shot comes to rest in fewer than 100 ticks.
	MaxTicks int = 10_000
)

// Course describes the geometry and physics of a golf course
type Course struct {
	Width, Height float64
	Start         r2.Vec
	BallRadius    float64
	Friction      float64
	MinVelocity   float64
	MaxPowerSpeed float64
	MaxTicks      int
}

// DefaultCourse returns the default course
func DefaultCourse() Course {
	return Course{
		Width:         ScreenWidth,
		Height:        ScreenHeight,
		Start:         r2.Vec{X: StartX, Y: StartY},
		BallRadius:    BallRadius,
		Friction:      Friction,
		MinVelocity:   MinVelocity,
		MaxPowerSpeed: MaxPowerSpeed,
		MaxTicks:      MaxTicks,
	}
}

// Validate returns an error if the Course cannot be simulated
func (c Course) Validate() error {
	if c.BallRadius < 0 {
		return fmt.Errorf("ball radius cannot be negative")
	}
	if c.Width <= 2*c.BallRadius || c.Height <= 2*c.BallRadius {
		return fmt.Errorf("course %vx%v too small for ball of radius %v",
			c.Width, c.Height, c.BallRadius)
	}
	if !(c.Friction >= 0 && c.Friction < 1) {
		return fmt.Errorf("friction %v ∉ [0, 1)", c.Friction)
	}
	if !(c.MinVelocity > 0) {
		return fmt.Errorf("minimum velocity must be positive")
	}
	if !(c.MaxPowerSpeed > 0) {
		return fmt.Errorf("maximum power speed must be positive")
	}
	if c.MaxTicks < 1 {
		return fmt.Errorf("maximum ticks must be positive")
	}
	return nil
}

// Bounds returns the box in which the centre of the ball can move
func (c Course) Bounds() r2.Box {
	return r2.Box{
		Min: r2.Vec{X: c.BallRadius, Y: c.BallRadius},
		Max: r2.Vec{X: c.Width - c.BallRadius, Y: c.Height - c.BallRadius},
	}
}

// Golf implements the one-shot golf environment. Each call to Step
// simulates one shot from the starting position to rest and ends the
// episode. Reset must be called to place a new hole before the next
// shot.
//
// Golf implements the environment.Environment interface. It is not
// safe for concurrent use.
type Golf struct {
	environment.Task
	actions *ActionSpace
	states  *StateSpace
	course  Course

	ball     r2.Vec
	velocity r2.Vec
	hole     r2.Vec
	path     []r2.Vec
	ticks    int
	lastStep ts.TimeStep
}

// New creates a new Golf environment with the argument task, action
// space, state space, and course. The first TimeStep of the
// environment is returned along with the environment.
func New(t environment.Task, actions *ActionSpace, states *StateSpace,
	course Course) (*Golf, ts.TimeStep, error) {
	if err := course.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %v", err)
	}

	g := &Golf{
		Task:    t,
		actions: actions,
		states:  states,
		course:  course,
	}
	return g, g.Reset(), nil
}

// NewDefault creates a new Golf environment with the default action
// space, state space, and course
func NewDefault(t environment.Task) (*Golf, ts.TimeStep, error) {
	return New(t, DefaultActionSpace(), DefaultStateSpace(), DefaultCourse())
}

// Reset places a new hole drawn from the Task's Starter, puts the ball
// back at the starting position at rest, and returns the first
// TimeStep of the new episode
func (g *Golf) Reset() ts.TimeStep {
	start := g.Start()
	g.hole = r2.Vec{X: start.AtVec(0), Y: start.AtVec(1)}
	g.ball = g.course.Start
	g.velocity = r2.Vec{}
	g.path = nil
	g.ticks = 0

	g.lastStep = ts.New(ts.First, 0, g.states.Encode(g.hole), 0)
	return g.lastStep
}

// Step takes the shot with the argument action index and returns the
// last TimeStep of the episode and a bool which is always true since
// every episode consists of a single shot. The observation of the
// returned TimeStep is the state of the hole, which does not move
// during a shot.
//
// An error is returned if the action is not in the ActionSpace, in
// which case the environment is left unchanged.
func (g *Golf) Step(action int) (ts.TimeStep, bool, error) {
	angle, force, err := g.actions.Decode(action)
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %w", err)
	}

	// Angles are measured from straight up, with positive angles
	// pointing right. The y axis points down the screen.
	rad := angle * math.Pi / 180
	speed := force * g.course.MaxPowerSpeed
	g.ball = g.course.Start
	g.velocity = r2.Vec{X: speed * math.Sin(rad), Y: -speed * math.Cos(rad)}

	g.roll()

	reward := g.GetReward(g.ball, g.hole)
	if g.AtGoal(g.ball, g.hole) {
		log.Debug().Msgf("hole in one: action %d, ball (%.2f, %.2f), "+
			"hole (%.2f, %.2f)", action, g.ball.X, g.ball.Y, g.hole.X,
			g.hole.Y)
	}

	g.lastStep = ts.New(ts.Last, reward, g.states.Encode(g.hole),
		g.lastStep.Number+1)
	return g.lastStep, true, nil
}

// roll moves the ball tick by tick until it comes to rest, recording
// each position it passes through
func (g *Golf) roll() {
	bounds := g.course.Bounds()
	g.path = make([]r2.Vec, 0, 128)
	g.ticks = 0

	for g.ticks < g.course.MaxTicks {
		g.ticks++

		g.ball.X += g.velocity.X
		g.ball.Y += g.velocity.Y
		g.path = append(g.path, g.ball)

		g.velocity.X *= g.course.Friction
		g.velocity.Y *= g.course.Friction

		// Bounce off the left or right wall
		if g.ball.X <= bounds.Min.X {
			g.ball.X = bounds.Min.X
			g.velocity.X = -g.velocity.X
		} else if g.ball.X >= bounds.Max.X {
			g.ball.X = bounds.Max.X
			g.velocity.X = -g.velocity.X
		}

		// Bounce off the top or bottom wall
		if g.ball.Y <= bounds.Min.Y {
			g.ball.Y = bounds.Min.Y
			g.velocity.Y = -g.velocity.Y
		} else if g.ball.Y >= bounds.Max.Y {
			g.ball.Y = bounds.Max.Y
			g.velocity.Y = -g.velocity.Y
		}

		if math.Hypot(g.velocity.X, g.velocity.Y) < g.course.MinVelocity {
			return
		}
	}
	log.Warn().Msgf("shot did not come to rest within %d ticks",
		g.course.MaxTicks)
}

// ObservationSpec returns the observation specification of the
// environment
func (g *Golf) ObservationSpec() environment.Spec {
	return environment.NewIndexSpec(environment.Observation, g.states.Len())
}

// ActionSpec returns the action specification of the environment
func (g *Golf) ActionSpec() environment.Spec {
	return environment.NewIndexSpec(environment.Action, g.actions.Len())
}

// Actions returns the ActionSpace of the environment
func (g *Golf) Actions() *ActionSpace { return g.actions }

// States returns the StateSpace of the environment
func (g *Golf) States() *StateSpace { return g.states }

// Course returns the course of the environment
func (g *Golf) Course() Course { return g.course }

// Hole returns the position of the hole
func (g *Golf) Hole() r2.Vec { return g.hole }

// Ball returns the position of the ball
func (g *Golf) Ball() r2.Vec { return g.ball }

// Ticks returns the number of simulation ticks of the last shot
func (g *Golf) Ticks() int { return g.ticks }

// LastTimeStep returns the last TimeStep returned by the environment
func (g *Golf) LastTimeStep() ts.TimeStep { return g.lastStep }

// Path returns the positions of the ball at each tick of the last
// shot, ending with its resting position
func (g *Golf) Path() []r2.Vec {
	path := make([]r2.Vec, len(g.path))
	copy(path, g.path)
	return path
}

// String returns a string representation of the environment
func (g *Golf) String() string {
	str := "Golf  |  Ball: (%.2f, %.2f)  |  Hole: (%.2f, %.2f)"
	return fmt.Sprintf(str, g.ball.X, g.ball.Y, g.hole.X, g.hole.Y)
}
