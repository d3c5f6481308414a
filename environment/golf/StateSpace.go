package golf

import (
	"fmt"

	"github.com/CKLiao0419/golf-q-learning/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r2"
)

// CellSize is the default side length of a StateSpace cell in pixels
const CellSize float64 = 6

// StateSpace discretises positions on the course into a grid of square
// cells. Cells are numbered row by row:
//
//	state = gy * width + gx
//
// Positions outside the course are clamped to the closest edge cell,
// so every position has a state.
type StateSpace struct {
	cellSize      float64
	width, height int
}

// NewStateSpace returns a StateSpace covering a courseWidth x
// courseHeight area with cells of side cellSize. The number of cells
// along each axis is the integer quotient of the course size by the
// cell size.
func NewStateSpace(courseWidth, courseHeight, cellSize float64) (*StateSpace,
	error) {
	if !(cellSize > 0) {
		return nil, fmt.Errorf("newStateSpace: cell size must be positive, "+
			"got %v", cellSize)
	}
	width := int(courseWidth / cellSize)
	height := int(courseHeight / cellSize)
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("newStateSpace: course %vx%v smaller than "+
			"one cell of size %v", courseWidth, courseHeight, cellSize)
	}

	return &StateSpace{cellSize, width, height}, nil
}

// DefaultStateSpace returns the StateSpace of the default course
func DefaultStateSpace() *StateSpace {
	s, err := NewStateSpace(ScreenWidth, ScreenHeight, CellSize)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of states
func (s *StateSpace) Len() int {
	return s.width * s.height
}

// Dims returns the number of cells along the x and y axes
func (s *StateSpace) Dims() (width, height int) {
	return s.width, s.height
}

// CellSize returns the side length of a cell
func (s *StateSpace) CellSize() float64 {
	return s.cellSize
}

// Cell returns the grid cell containing position p
func (s *StateSpace) Cell(p r2.Vec) (gx, gy int) {
	gx = floatutils.ClipIndex(p.X/s.cellSize, s.width)
	gy = floatutils.ClipIndex(p.Y/s.cellSize, s.height)
	return
}

// Encode returns the state index of position p
func (s *StateSpace) Encode(p r2.Vec) int {
	gx, gy := s.Cell(p)
	return gy*s.width + gx
}
