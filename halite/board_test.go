package halite

import "testing"

func TestBoardCloneIsIndependent(t *testing.T) {
	b := NewBoard(4, 4)
	p := Point{X: 1, Y: 2}
	idx := b.Index(p)
	b.Halite[idx] = 50
	b.Ships[idx] = true
	b.Owners[idx] = 1
	b.Cargo[idx] = 7
	b.Structures[idx] = StructureDropoff
	b.Inspired[idx] = true

	c := b.Clone()
	if c.Halite[idx] != 50 || !c.Ships[idx] || c.Owners[idx] != 1 ||
		c.Cargo[idx] != 7 || c.Structures[idx] != StructureDropoff || !c.Inspired[idx] {
		t.Fatalf("clone does not match the source")
	}

	c.Halite[idx] = 0
	c.Ships[idx] = false
	if b.Halite[idx] != 50 || !b.Ships[idx] {
		t.Errorf("mutating the clone changed the source board")
	}
}

func TestTotalHalite(t *testing.T) {
	b := NewBoard(3, 3)
	if b.TotalHalite() != 0 {
		t.Errorf("empty board reports %d halite", b.TotalHalite())
	}
	b.Halite[0] = 100
	b.Halite[8] = 23
	if got := b.TotalHalite(); got != 123 {
		t.Errorf("total = %d, want 123", got)
	}
}
