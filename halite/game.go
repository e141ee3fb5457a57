package halite

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
)

// Command is one of the per-cell orders a player can issue.
type Command uint8

const (
	CmdNothing Command = iota
	CmdSpawn
	CmdConstruct
	CmdNorth
	CmdEast
	CmdSouth
	CmdWest
)

var commandNames = map[Command]string{
	CmdNothing:   "nothing",
	CmdSpawn:     "spawn",
	CmdConstruct: "construct",
	CmdNorth:     "north",
	CmdEast:      "east",
	CmdSouth:     "south",
	CmdWest:      "west",
}

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return fmt.Sprintf("command(%d)", uint8(c))
}

func (c Command) Valid() bool {
	return c <= CmdWest
}

// ParseCommand is the inverse of Command.String.
func ParseCommand(s string) (Command, error) {
	for c, n := range commandNames {
		if n == s {
			return c, nil
		}
	}
	return CmdNothing, fmt.Errorf("unknown command %q", s)
}

// Offset returns the board displacement of a move command.
func (c Command) Offset() (dx, dy int) {
	switch c {
	case CmdNorth:
		return 0, -1
	case CmdEast:
		return 1, 0
	case CmdSouth:
		return 0, 1
	case CmdWest:
		return -1, 0
	}
	return 0, 0
}

// MoveCommands in scan order, used by action enumeration.
var MoveCommands = []Command{CmdNorth, CmdEast, CmdSouth, CmdWest}

// CommandSet holds one player's orders for a turn, keyed by the cell of the
// entity the order addresses. Orders for cells the player does not occupy are
// ignored during the step.
type CommandSet map[Point]Command

// Config of a new game.
type Config struct {
	Players   int
	Size      MapSize
	MapType   MapType
	Seed      uint64
	Constants Constants
}

// ErrGameOver is returned by Step once the turn limit has been reached.
var ErrGameOver = errors.New("game is over")

// Game is a running Halite III match. It owns the board, the per-player
// banks and the turn counter. The zero value is not usable, construct with
// NewGame.
type Game struct {
	Consts    Constants
	Board     *Board
	Banks     []int
	Factories []Point
	Turn      int
	TurnLimit int
}

// NewGame generates a map for the given configuration and places each player
// with a factory and the initial bank.
func NewGame(cfg Config) (*Game, error) {
	if cfg.Players < 1 {
		return nil, fmt.Errorf("at least one player required, got %d", cfg.Players)
	}
	c := cfg.Constants
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid constants: %w", err)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	var (
		board     *Board
		factories []Point
		err       error
	)
	switch cfg.MapType {
	case MapFractal:
		board, factories, err = GenerateFractal(cfg.Size, cfg.Players, c, rng)
	case MapBasic:
		board, factories, err = GenerateBasic(cfg.Size, cfg.Players, c)
	default:
		err = fmt.Errorf("unknown map type %d", cfg.MapType)
	}
	if err != nil {
		return nil, fmt.Errorf("generating map: %w", err)
	}

	banks := make([]int, cfg.Players)
	for i := range banks {
		banks[i] = c.InitialEnergy
	}
	return &Game{
		Consts:    c,
		Board:     board,
		Banks:     banks,
		Factories: factories,
		TurnLimit: c.TurnLimit(int(cfg.Size)),
	}, nil
}

func (g *Game) Players() int {
	return len(g.Banks)
}

func (g *Game) Done() bool {
	return g.Turn >= g.TurnLimit
}

// Step resolves one turn. cmds holds one command set per player, indexed by
// player id minus one. It returns the shaped reward earned by each player
// this turn and whether the game has ended.
//
// Resolution order: ship orders in row-major scan order, factory spawns,
// inspiration, extraction, bank reward shaping.
func (g *Game) Step(cmds []CommandSet) ([]float64, bool, error) {
	if g.Done() {
		return nil, true, ErrGameOver
	}
	if len(cmds) != len(g.Banks) {
		return nil, false, fmt.Errorf("expected %d command sets, got %d", len(g.Banks), len(cmds))
	}

	rewards := make([]float64, len(g.Banks))
	b := g.Board

	// Ships that arrived on a cell this turn must not be commanded again.
	arrived := make(map[int]bool)
	for _, idx := range b.shipCells() {
		if !b.Ships[idx] || arrived[idx] {
			continue
		}
		owner := int(b.Owners[idx])
		if owner == 0 {
			continue
		}
		set := cmds[owner-1]
		if set == nil {
			continue
		}
		cmd, ok := set[b.PointAt(idx)]
		if !ok || cmd == CmdNothing || cmd == CmdSpawn {
			continue
		}
		if !cmd.Valid() {
			rewards[owner-1] -= g.Consts.InvalidCommandPenalty
			continue
		}
		var success bool
		if cmd == CmdConstruct {
			success = g.constructDropoff(idx)
		} else {
			success = g.moveShip(idx, cmd, arrived)
		}
		if !success {
			rewards[owner-1] -= g.Consts.InvalidCommandPenalty
		}
	}

	for i, factory := range g.Factories {
		set := cmds[i]
		if set == nil {
			continue
		}
		if cmd, ok := set[factory]; ok && cmd == CmdSpawn {
			if !g.spawnShip(i) {
				rewards[i] -= g.Consts.InvalidCommandPenalty
			}
		}
	}

	g.updateInspiration()
	g.extract()

	for i := range rewards {
		rewards[i] += float64(g.Banks[i]) * g.Consts.BankRewardRate
	}

	g.Turn++
	return rewards, g.Done(), nil
}

// constructDropoff converts the ship on the cell to a dropoff, absorbing the
// cell's halite into the bank. Fails if the player cannot cover the cost or
// the cell already holds a structure.
func (g *Game) constructDropoff(idx int) bool {
	b := g.Board
	if b.Structures[idx] != StructureNone {
		return false
	}
	owner := int(b.Owners[idx])
	if g.Banks[owner-1]+b.Halite[idx] < g.Consts.DropoffCost {
		return false
	}
	g.Banks[owner-1] += b.Halite[idx] + b.Cargo[idx] - g.Consts.DropoffCost
	b.Halite[idx] = 0
	b.Cargo[idx] = 0
	b.Ships[idx] = false
	b.Structures[idx] = StructureDropoff
	return true
}

// moveShip applies a move command to the ship on idx. The move cost is
// floor(cellHalite/ratio), gated against the ship's cargo and deducted on a
// successful move.
func (g *Game) moveShip(idx int, cmd Command, arrived map[int]bool) bool {
	b := g.Board
	ratio := g.Consts.MoveCostRatio
	if b.Inspired[idx] {
		ratio = g.Consts.InspiredMoveCostRatio
	}
	cost := b.Halite[idx] / ratio
	if b.Cargo[idx] < cost {
		return false
	}

	p := b.PointAt(idx)
	dx, dy := cmd.Offset()
	dest := Point{X: p.X + dx, Y: p.Y + dy}
	if !b.InBounds(dest) {
		return false
	}
	dIdx := b.Index(dest)
	owner := b.Owners[idx]

	switch {
	case b.Ships[dIdx]:
		if b.Owners[dIdx] == owner {
			return false
		}
		// Head-on collision: both ships sink, cargo drops on the
		// destination cell.
		b.Halite[dIdx] += b.Cargo[idx] + b.Cargo[dIdx]
		b.Cargo[idx] = 0
		b.Cargo[dIdx] = 0
		b.Ships[idx] = false
		b.Ships[dIdx] = false
		if b.Structures[idx] == StructureNone {
			b.Owners[idx] = 0
		}
		if b.Structures[dIdx] == StructureNone {
			b.Owners[dIdx] = 0
		}
		return true

	case b.Structures[dIdx] != StructureNone:
		if b.Owners[dIdx] != owner {
			return false
		}
		// Deposit into the own factory or dropoff. The cargo layer only
		// ever holds ship cargo, so the deposit goes straight to the bank.
		g.Banks[owner-1] += b.Cargo[idx] - cost
		b.Cargo[idx] = 0
		b.Cargo[dIdx] = 0
		b.Ships[idx] = false
		if b.Structures[idx] == StructureNone {
			b.Owners[idx] = 0
		}
		b.Ships[dIdx] = true
		arrived[dIdx] = true
		return true

	default:
		b.Ships[dIdx] = true
		b.Owners[dIdx] = owner
		b.Cargo[dIdx] = b.Cargo[idx] - cost
		b.Cargo[idx] = 0
		b.Ships[idx] = false
		if b.Structures[idx] == StructureNone {
			b.Owners[idx] = 0
		}
		arrived[dIdx] = true
		return true
	}
}

// spawnShip places a fresh ship on the player's factory.
func (g *Game) spawnShip(player int) bool {
	b := g.Board
	idx := b.Index(g.Factories[player])
	if g.Banks[player] < g.Consts.NewEntityEnergyCost {
		return false
	}
	if b.Ships[idx] {
		return false
	}
	g.Banks[player] -= g.Consts.NewEntityEnergyCost
	b.Ships[idx] = true
	b.Cargo[idx] = 0
	return true
}

// updateInspiration recomputes the inspiration layer from scratch: a ship is
// inspired when at least InspirationShipCount enemy ships sit within
// Manhattan distance InspirationRadius.
func (g *Game) updateInspiration() {
	b := g.Board
	for i := range b.Inspired {
		b.Inspired[i] = false
	}
	if !g.Consts.InspirationEnabled {
		return
	}

	type shipPos struct {
		p     Point
		owner int8
	}
	ships := make([]shipPos, 0, 32)
	for idx, s := range b.Ships {
		if s {
			ships = append(ships, shipPos{p: b.PointAt(idx), owner: b.Owners[idx]})
		}
	}

	for _, s := range ships {
		enemies := 0
		for _, o := range ships {
			if o.owner == s.owner {
				continue
			}
			if s.p.Manhattan(o.p) <= g.Consts.InspirationRadius {
				enemies++
				if enemies >= g.Consts.InspirationShipCount {
					break
				}
			}
		}
		if enemies >= g.Consts.InspirationShipCount {
			b.Inspired[b.Index(s.p)] = true
		}
	}
}

// extract mines halite on every ship's cell. Inspired ships earn bonus cargo
// while the cell only loses the base extraction.
func (g *Game) extract() {
	b := g.Board
	c := g.Consts
	for idx, s := range b.Ships {
		if !s {
			continue
		}
		ratio := c.ExtractRatio
		if b.Inspired[idx] {
			ratio = c.InspiredExtractRatio
		}
		extracted := ceilDiv(b.Halite[idx], ratio)
		gained := extracted
		if extracted == 0 && b.Halite[idx] > 0 {
			extracted = b.Halite[idx]
			gained = extracted
		}
		if extracted+b.Cargo[idx] > c.MaxEnergy {
			extracted = c.MaxEnergy - b.Cargo[idx]
		}
		if b.Inspired[idx] {
			gained += int(c.InspiredBonusMultiplier * float64(gained))
		}
		if c.MaxEnergy-b.Cargo[idx] < gained {
			gained = c.MaxEnergy - b.Cargo[idx]
		}
		b.Cargo[idx] += gained
		b.Halite[idx] -= extracted
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Observation is the JSON-friendly snapshot of the game state handed to
// policies and served over HTTP. Layers are flat row-major slices.
type Observation struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Turn   int `json:"turn"`

	Halite     []int `json:"halite"`
	Cargo      []int `json:"cargo"`
	Structures []int `json:"structures"`
	Ships      []int `json:"ships"`
	Owners     []int `json:"owners"`
	Banks      []int `json:"banks"`
}

func (g *Game) Observation() *Observation {
	b := g.Board
	n := b.Width * b.Height
	o := &Observation{
		Width:      b.Width,
		Height:     b.Height,
		Turn:       g.Turn,
		Halite:     make([]int, n),
		Cargo:      make([]int, n),
		Structures: make([]int, n),
		Ships:      make([]int, n),
		Owners:     make([]int, n),
		Banks:      make([]int, len(g.Banks)),
	}
	copy(o.Halite, b.Halite)
	copy(o.Cargo, b.Cargo)
	for i := 0; i < n; i++ {
		o.Structures[i] = int(b.Structures[i])
		o.Owners[i] = int(b.Owners[i])
		if b.Ships[i] {
			o.Ships[i] = 1
		}
	}
	copy(o.Banks, g.Banks)
	return o
}
