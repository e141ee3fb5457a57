package halite

import "fmt"

// Point is a cell coordinate. X grows eastwards, Y southwards.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Manhattan distance between two points. The board does not wrap.
func (p Point) Manhattan(o Point) int {
	dx := p.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - o.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Structure markers stored in Board.Structures.
const (
	StructureNone    int8 = 0
	StructureFactory int8 = 1
	StructureDropoff int8 = -1
)

// Board holds the layered game map as flat row-major slices, one slice per
// layer. The layout mirrors the observation tensor handed to policies:
// sea halite, cargo halite (held by the ship or structure on the cell),
// structures, ship presence and ownership. Inspiration is bookkeeping only
// and is not exported in observations.
type Board struct {
	Width  int
	Height int

	Halite     []int
	Cargo      []int
	Structures []int8
	Ships      []bool
	Owners     []int8
	Inspired   []bool
}

func NewBoard(width, height int) *Board {
	n := width * height
	return &Board{
		Width:      width,
		Height:     height,
		Halite:     make([]int, n),
		Cargo:      make([]int, n),
		Structures: make([]int8, n),
		Ships:      make([]bool, n),
		Owners:     make([]int8, n),
		Inspired:   make([]bool, n),
	}
}

func (b *Board) Index(p Point) int {
	return p.Y*b.Width + p.X
}

func (b *Board) PointAt(idx int) Point {
	return Point{X: idx % b.Width, Y: idx / b.Width}
}

func (b *Board) InBounds(p Point) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// shipCells returns the indices of all cells holding a ship, in row-major
// order. Step iterates over this snapshot so that a ship moving ahead of the
// scan is not commanded twice in the same turn.
func (b *Board) shipCells() []int {
	cells := make([]int, 0, 32)
	for idx, s := range b.Ships {
		if s {
			cells = append(cells, idx)
		}
	}
	return cells
}

func (b *Board) Clone() *Board {
	c := NewBoard(b.Width, b.Height)
	copy(c.Halite, b.Halite)
	copy(c.Cargo, b.Cargo)
	copy(c.Structures, b.Structures)
	copy(c.Ships, b.Ships)
	copy(c.Owners, b.Owners)
	copy(c.Inspired, b.Inspired)
	return c
}

// TotalHalite left on the sea floor.
func (b *Board) TotalHalite() int {
	total := 0
	for _, h := range b.Halite {
		total += h
	}
	return total
}
