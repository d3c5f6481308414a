package golf

import (
	"bytes"
	"image/png"
	"math"
	"path/filepath"
	"testing"

	"github.com/CKLiao0419/golf-q-learning/environment"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
)

// fixedStarter always places the hole at the same position
type fixedStarter r2.Vec

func (f fixedStarter) Start() mat.Vector {
	return mat.NewVecDense(2, []float64{f.X, f.Y})
}

func newTestGolf(t testing.TB, s environment.Starter) *Golf {
	task, err := NewPutt(s, HoleRadius, HoleBonus)
	require.NoError(t, err)
	g, _, err := NewDefault(task)
	require.NoError(t, err)
	return g
}

// straightShot returns the action of the full-force shot closest to
// straight up
func straightShot(t testing.TB, a *ActionSpace) int {
	angles := a.Angles()
	best := 0
	for i := range angles {
		if math.Abs(angles[i]) < math.Abs(angles[best]) {
			best = i
		}
	}
	_, forces := a.Dims()
	action, err := a.Encode(best, forces-1)
	require.NoError(t, err)
	return action
}

func TestGolfReset(t *testing.T) {
	hole := r2.Vec{X: 120, Y: 70}
	g := newTestGolf(t, fixedStarter(hole))

	step := g.Reset()
	require.True(t, step.First())
	require.Equal(t, hole, g.Hole())
	require.Equal(t, DefaultCourse().Start, g.Ball())
	require.Empty(t, g.Path())
	require.Equal(t, g.States().Encode(hole), step.Observation)
}

func TestGolfStraightShot(t *testing.T) {
	hole := r2.Vec{X: 200, Y: 100}
	g := newTestGolf(t, fixedStarter(hole))
	first := g.Reset()

	step, done, err := g.Step(straightShot(t, g.Actions()))
	require.NoError(t, err)
	require.True(t, done)
	require.True(t, step.Last())
	require.Equal(t, first.Observation, step.Observation,
		"the hole does not move during a shot")

	// The ball bounces off the top wall once and rolls back down
	// towards the hole
	ball := g.Ball()
	require.InDelta(t, StartX, ball.X, 1e-6)
	require.InDelta(t, 121.78, ball.Y, 0.05)
	require.Equal(t, 96, g.Ticks())

	path := g.Path()
	require.Len(t, path, g.Ticks())
	require.Equal(t, ball, path[len(path)-1])

	d := math.Hypot(ball.X-hole.X, ball.Y-hole.Y)
	travelled := 0.0
	prev := DefaultCourse().Start
	for _, p := range path {
		travelled += math.Hypot(p.X-prev.X, p.Y-prev.Y)
		prev = p
	}
	require.Less(t, d, travelled/10)

	baseline := math.Max(0, MaxShapedReward-d/DistanceScale)
	if d < HoleRadius {
		require.Equal(t, baseline+HoleBonus, step.Reward)
	} else {
		require.Equal(t, baseline, step.Reward)
	}
	require.InDelta(t, 92.74, step.Reward, 0.05)
}

func TestGolfHoleInOne(t *testing.T) {
	// Place the hole exactly where the straight shot comes to rest
	probe := newTestGolf(t, fixedStarter(r2.Vec{X: 200, Y: 100}))
	action := straightShot(t, probe.Actions())
	_, _, err := probe.Step(action)
	require.NoError(t, err)

	g := newTestGolf(t, fixedStarter(probe.Ball()))
	g.Reset()
	step, _, err := g.Step(action)
	require.NoError(t, err)
	require.True(t, g.AtGoal(g.Ball(), g.Hole()))
	require.Equal(t, MaxShapedReward+HoleBonus, step.Reward)
}

func TestGolfTerminates(t *testing.T) {
	starter := environment.NewUniformStarter([]r1.Interval{
		{Min: float64(HoleMinX), Max: float64(HoleMaxX)},
		{Min: float64(HoleMinY), Max: float64(HoleMaxY)},
	}, rand.NewSource(42))
	g := newTestGolf(t, starter)
	bounds := g.Course().Bounds()

	for action := 0; action < g.Actions().Len(); action++ {
		g.Reset()
		step, done, err := g.Step(action)
		require.NoError(t, err)
		require.True(t, done)
		require.False(t, math.IsNaN(step.Reward) || math.IsInf(step.Reward, 0))
		require.GreaterOrEqual(t, step.Reward, 0.0)
		require.LessOrEqual(t, step.Reward, MaxShapedReward+HoleBonus)

		// Speed decays by the friction factor each tick and bouncing
		// does not change it, so every shot rests in under 100 ticks
		require.LessOrEqual(t, g.Ticks(), 96, "action %d", action)

		ball := g.Ball()
		require.True(t, ball.X >= bounds.Min.X && ball.X <= bounds.Max.X)
		require.True(t, ball.Y >= bounds.Min.Y && ball.Y <= bounds.Max.Y)
	}
}

func TestGolfTickGuard(t *testing.T) {
	task, err := NewPutt(fixedStarter(r2.Vec{X: 200, Y: 100}), HoleRadius,
		HoleBonus)
	require.NoError(t, err)

	course := DefaultCourse()
	course.MaxTicks = 10
	g, _, err := New(task, DefaultActionSpace(), DefaultStateSpace(), course)
	require.NoError(t, err)

	_, done, err := g.Step(straightShot(t, g.Actions()))
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, 10, g.Ticks())
}

func TestGolfInvalidAction(t *testing.T) {
	g := newTestGolf(t, fixedStarter(r2.Vec{X: 200, Y: 100}))
	before := g.LastTimeStep()

	_, _, err := g.Step(g.Actions().Len())
	require.ErrorIs(t, err, ErrOutOfRange)
	require.Equal(t, before, g.LastTimeStep())
	require.Empty(t, g.Path())
}

func TestGolfSpecs(t *testing.T) {
	g := newTestGolf(t, fixedStarter(r2.Vec{X: 200, Y: 100}))
	require.Equal(t, g.States().Len(), g.ObservationSpec().Values())
	require.Equal(t, g.Actions().Len(), g.ActionSpec().Values())
	require.Equal(t, MaxShapedReward+HoleBonus,
		g.RewardSpec().UpperBound.AtVec(0))
}

func TestCourseValidate(t *testing.T) {
	require.NoError(t, DefaultCourse().Validate())

	c := DefaultCourse()
	c.Friction = 1
	require.Error(t, c.Validate())

	c = DefaultCourse()
	c.MinVelocity = 0
	require.Error(t, c.Validate())
}

func TestGolfRender(t *testing.T) {
	g := newTestGolf(t, fixedStarter(r2.Vec{X: 200, Y: 100}))
	_, _, err := g.Step(straightShot(t, g.Actions()))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, g.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, int(ScreenWidth), img.Bounds().Dx())
	require.Equal(t, int(ScreenHeight), img.Bounds().Dy())

	// The hole is drawn at its position, beside the path of the ball
	r, gr, b, _ := img.At(208, 100).RGBA()
	require.Equal(t, [3]uint32{50, 50, 230}, [3]uint32{r >> 8, gr >> 8, b >> 8})

	filename := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, g.SavePNG(filename))
}

func BenchmarkGolfStep(b *testing.B) {
	g := newTestGolf(b, fixedStarter(r2.Vec{X: 200, Y: 100}))
	n := g.Actions().Len()
	for i := 0; i < b.N; i++ {
		g.Reset()
		g.Step(i % n)
	}
}
