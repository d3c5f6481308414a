package golf

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrOutOfRange is returned when an action index does not name a shot
// in an ActionSpace
var ErrOutOfRange = errors.New("action index out of range")

const (
	NumAngles int     = 51
	MinAngle  float64 = -45.0 // degrees
	MaxAngle  float64 = 45.0  // degrees

	NumForces int     = 13
	MinForce  float64 = 0.2
	MaxForce  float64 = 1.0
)

// ActionSpace is the catalogue of shots an agent can take. A shot is
// an (angle, force) pair taken from the cross-product of an ordered
// set of angles and an ordered set of force multipliers.
//
// Action indices enumerate the angles fastest:
//
//	angleIndex = action % NumAngles
//	forceIndex = action / NumAngles
//
// so action 0 is the first angle with the first force and the last
// action is the last angle with the last force.
//
// An ActionSpace is immutable and safe for concurrent use.
type ActionSpace struct {
	angles []float64
	forces []float64
}

// NewActionSpace returns a new ActionSpace over the argument angles,
// in degrees measured from straight up, and force multipliers in
// (0, 1].
func NewActionSpace(angles, forces []float64) (*ActionSpace, error) {
	if len(angles) == 0 {
		return nil, fmt.Errorf("newActionSpace: no angles")
	}
	if len(forces) == 0 {
		return nil, fmt.Errorf("newActionSpace: no forces")
	}
	for _, f := range forces {
		if !(f > 0 && f <= 1) {
			return nil, fmt.Errorf("newActionSpace: force %v ∉ (0, 1]", f)
		}
	}

	a := make([]float64, len(angles))
	copy(a, angles)
	f := make([]float64, len(forces))
	copy(f, forces)

	return &ActionSpace{angles: a, forces: f}, nil
}

// DefaultActionSpace returns the ActionSpace of NumAngles evenly
// spaced angles in [MinAngle, MaxAngle] and NumForces evenly spaced
// forces in [MinForce, MaxForce]
func DefaultActionSpace() *ActionSpace {
	angles := floats.Span(make([]float64, NumAngles), MinAngle, MaxAngle)
	forces := floats.Span(make([]float64, NumForces), MinForce, MaxForce)

	return &ActionSpace{angles: angles, forces: forces}
}

// Len returns the number of actions in the ActionSpace
func (a *ActionSpace) Len() int {
	return len(a.angles) * len(a.forces)
}

// Dims returns the number of angles and forces
func (a *ActionSpace) Dims() (angles, forces int) {
	return len(a.angles), len(a.forces)
}

// Indices splits an action index into its angle and force indices
func (a *ActionSpace) Indices(action int) (angle, force int, err error) {
	if action < 0 || action >= a.Len() {
		return 0, 0, fmt.Errorf("indices: %w: %v ∉ [0, %v)",
			ErrOutOfRange, action, a.Len())
	}
	return action % len(a.angles), action / len(a.angles), nil
}

// Encode returns the action index of the shot with the argument angle
// and force indices
func (a *ActionSpace) Encode(angle, force int) (int, error) {
	if angle < 0 || angle >= len(a.angles) {
		return 0, fmt.Errorf("encode: %w: angle index %v ∉ [0, %v)",
			ErrOutOfRange, angle, len(a.angles))
	}
	if force < 0 || force >= len(a.forces) {
		return 0, fmt.Errorf("encode: %w: force index %v ∉ [0, %v)",
			ErrOutOfRange, force, len(a.forces))
	}
	return force*len(a.angles) + angle, nil
}

// Decode returns the angle, in degrees, and the force multiplier of
// the shot with the argument action index
func (a *ActionSpace) Decode(action int) (angle, force float64, err error) {
	i, j, err := a.Indices(action)
	if err != nil {
		return 0, 0, fmt.Errorf("decode: %w", err)
	}
	return a.angles[i], a.forces[j], nil
}

// Angles returns a copy of the angles of the ActionSpace
func (a *ActionSpace) Angles() []float64 {
	angles := make([]float64, len(a.angles))
	copy(angles, a.angles)
	return angles
}

// Forces returns a copy of the forces of the ActionSpace
func (a *ActionSpace) Forces() []float64 {
	forces := make([]float64, len(a.forces))
	copy(forces, a.forces)
	return forces
}
