package haliteenv

import (
	"golang.org/x/exp/rand"

	"github.com/rmohan/halite-rl-env/halite"
)

// GreedyBot is a scripted player used to drive opponents. Ships mine the
// cell they stand on while it is worth mining, otherwise they chase the
// richest neighboring cell; full ships head back to the nearest own
// structure. The factory keeps spawning through the first half of the game.
type GreedyBot struct {
	Player int // 1-based owner id
	rng    *rand.Rand

	// cargo level at which a ship turns around
	returnAt int
	// cells below this halite are not worth sitting on
	mineAt int
	// stop growing the fleet beyond this many ships
	maxShips int
}

func NewGreedyBot(player int, seed uint64) *GreedyBot {
	return &GreedyBot{
		Player:   player,
		rng:      rand.New(rand.NewSource(seed)),
		returnAt: 900,
		mineAt:   60,
		maxShips: 8,
	}
}

// Commands produces this player's command set for the current turn.
func (bot *GreedyBot) Commands(g *halite.Game) halite.CommandSet {
	b := g.Board
	owner := int8(bot.Player)
	cmds := make(halite.CommandSet)

	ships := 0
	for idx := range b.Ships {
		if b.Ships[idx] && b.Owners[idx] == owner {
			ships++
		}
	}

	for idx := range b.Ships {
		if !b.Ships[idx] || b.Owners[idx] != owner {
			continue
		}
		p := b.PointAt(idx)

		ratio := g.Consts.MoveCostRatio
		if b.Inspired[idx] {
			ratio = g.Consts.InspiredMoveCostRatio
		}
		if b.Cargo[idx] < b.Halite[idx]/ratio {
			// cannot afford to move, mine instead
			continue
		}

		if b.Cargo[idx] >= bot.returnAt {
			if cmd, ok := bot.towardStructure(g, p); ok {
				cmds[p] = cmd
			}
			continue
		}
		if b.Halite[idx] >= bot.mineAt {
			continue
		}
		if cmd, ok := bot.towardHalite(g, p); ok {
			cmds[p] = cmd
		}
	}

	factory := g.Factories[bot.Player-1]
	fIdx := b.Index(factory)
	if g.Turn < g.TurnLimit/2 &&
		g.Banks[bot.Player-1] >= g.Consts.NewEntityEnergyCost &&
		!b.Ships[fIdx] && ships < bot.maxShips {
		cmds[factory] = halite.CmdSpawn
	}
	return cmds
}

// towardStructure steps along the axis with the larger distance to the
// nearest own factory or dropoff.
func (bot *GreedyBot) towardStructure(g *halite.Game, p halite.Point) (halite.Command, bool) {
	b := g.Board
	best := halite.Point{}
	bestDist := -1
	for idx, s := range b.Structures {
		if s == halite.StructureNone || b.Owners[idx] != int8(bot.Player) {
			continue
		}
		sp := b.PointAt(idx)
		if d := p.Manhattan(sp); bestDist < 0 || d < bestDist {
			best = sp
			bestDist = d
		}
	}
	if bestDist <= 0 {
		return halite.CmdNothing, false
	}

	dx, dy := best.X-p.X, best.Y-p.Y
	var first, second halite.Command
	if abs(dx) >= abs(dy) {
		first, second = eastWest(dx), northSouth(dy)
	} else {
		first, second = northSouth(dy), eastWest(dx)
	}
	for _, cmd := range []halite.Command{first, second} {
		if cmd == halite.CmdNothing {
			continue
		}
		if bot.passable(g, p, cmd) {
			return cmd, true
		}
	}
	return halite.CmdNothing, false
}

// towardHalite picks the richest passable neighbor, breaking ties randomly.
func (bot *GreedyBot) towardHalite(g *halite.Game, p halite.Point) (halite.Command, bool) {
	b := g.Board
	best := halite.CmdNothing
	bestHalite := b.Halite[b.Index(p)]
	for _, cmd := range halite.MoveCommands {
		dx, dy := cmd.Offset()
		dest := halite.Point{X: p.X + dx, Y: p.Y + dy}
		if !b.InBounds(dest) || !bot.passable(g, p, cmd) {
			continue
		}
		h := b.Halite[b.Index(dest)]
		if h > bestHalite || (h == bestHalite && best != halite.CmdNothing && bot.rng.Intn(2) == 0) {
			best = cmd
			bestHalite = h
		}
	}
	if best == halite.CmdNothing {
		return halite.CmdNothing, false
	}
	return best, true
}

// passable rejects moves off the board, onto any ship or onto enemy
// structures.
func (bot *GreedyBot) passable(g *halite.Game, p halite.Point, cmd halite.Command) bool {
	b := g.Board
	dx, dy := cmd.Offset()
	dest := halite.Point{X: p.X + dx, Y: p.Y + dy}
	if !b.InBounds(dest) {
		return false
	}
	idx := b.Index(dest)
	if b.Ships[idx] {
		return false
	}
	if b.Structures[idx] != halite.StructureNone && b.Owners[idx] != int8(bot.Player) {
		return false
	}
	return true
}

func eastWest(dx int) halite.Command {
	switch {
	case dx > 0:
		return halite.CmdEast
	case dx < 0:
		return halite.CmdWest
	}
	return halite.CmdNothing
}

func northSouth(dy int) halite.Command {
	switch {
	case dy > 0:
		return halite.CmdSouth
	case dy < 0:
		return halite.CmdNorth
	}
	return halite.CmdNothing
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
