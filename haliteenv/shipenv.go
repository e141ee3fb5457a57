package haliteenv

import (
	"fmt"

	"github.com/rmohan/halite-rl-env/halite"
	"github.com/rmohan/halite-rl-env/rl"
)

// ShipEnv flattens the multi-player game into the single-agent rl contract:
// the learning player's entities are commanded one at a time (ships in scan
// order, the factory last) and the game turn advances once every entity has
// been commanded. Opponents are driven by GreedyBots. The reward of a turn
// is delivered on the step that advances it.
type ShipEnv struct {
	cfg    EnvConfig
	player int
	game   *halite.Game
	bots   []*GreedyBot

	pending halite.CommandSet
	queue   []halite.Point
	cursor  int
	resets  uint64
}

var _ rl.Environment = &ShipEnv{}

func NewShipEnv(cfg EnvConfig) (*ShipEnv, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &ShipEnv{cfg: cfg, player: 1}, nil
}

func (s *ShipEnv) Reset() (rl.State, error) {
	game, err := halite.NewGame(halite.Config{
		Players:   s.cfg.Players,
		Size:      s.cfg.Size,
		MapType:   s.cfg.MapType,
		Seed:      s.cfg.Seed + s.resets,
		Constants: s.cfg.Constants,
	})
	if err != nil {
		return nil, err
	}
	s.game = game
	s.resets++
	s.bots = make([]*GreedyBot, 0, s.cfg.Players-1)
	for p := 2; p <= s.cfg.Players; p++ {
		s.bots = append(s.bots, NewGreedyBot(p, s.cfg.Seed+uint64(p)))
	}
	s.pending = make(halite.CommandSet)
	s.buildQueue()
	return s.state(0, game.Done()), nil
}

func (s *ShipEnv) Step(a rl.Action) (rl.State, error) {
	act, ok := a.(*ShipAction)
	if !ok {
		return nil, fmt.Errorf("unexpected action type %T", a)
	}
	if s.game == nil {
		return nil, fmt.Errorf("environment not reset")
	}
	if s.cursor >= len(s.queue) {
		return nil, fmt.Errorf("no entity left to command this turn")
	}

	entity := s.queue[s.cursor]
	if act.Cmd != halite.CmdNothing {
		s.pending[entity] = act.Cmd
	}
	s.cursor++
	if s.cursor < len(s.queue) {
		return s.state(0, false), nil
	}

	cmds := make([]halite.CommandSet, s.cfg.Players)
	cmds[s.player-1] = s.pending
	for _, bot := range s.bots {
		cmds[bot.Player-1] = bot.Commands(s.game)
	}
	rewards, done, err := s.game.Step(cmds)
	if err != nil {
		return nil, err
	}
	s.pending = make(halite.CommandSet)
	s.buildQueue()
	return s.state(rewards[s.player-1], done), nil
}

// buildQueue collects the learning player's entities for the new turn.
func (s *ShipEnv) buildQueue() {
	b := s.game.Board
	s.queue = s.queue[:0]
	owner := int8(s.player)
	for idx, ship := range b.Ships {
		if ship && b.Owners[idx] == owner {
			s.queue = append(s.queue, b.PointAt(idx))
		}
	}
	factory := s.game.Factories[s.player-1]
	if !b.Ships[b.Index(factory)] || b.Owners[b.Index(factory)] != owner {
		// factory slot is queued even without a ship so spawning stays
		// possible; skip it only when an own ship already queued it
		s.queue = append(s.queue, factory)
	}
	s.cursor = 0
}

func (s *ShipEnv) state(reward float64, done bool) *ShipState {
	b := s.game.Board
	st := &ShipState{
		Turn:   s.game.Turn,
		Bank:   s.game.Banks[s.player-1],
		reward: reward,
		done:   done,
	}
	if s.cursor < len(s.queue) {
		entity := s.queue[s.cursor]
		idx := b.Index(entity)
		st.Entity = entity
		st.Factory = entity == s.game.Factories[s.player-1] && !(b.Ships[idx] && b.Owners[idx] == int8(s.player))
		st.Cargo = b.Cargo[idx]
		st.CellHalite = b.Halite[idx]
	}
	return st
}

// ShipAction wraps a single engine command.
type ShipAction struct {
	Cmd halite.Command
}

var _ rl.Action = &ShipAction{}

func (a *ShipAction) Hash() string {
	return a.Cmd.String()
}

var (
	ActionNothing   = &ShipAction{halite.CmdNothing}
	ActionSpawn     = &ShipAction{halite.CmdSpawn}
	ActionConstruct = &ShipAction{halite.CmdConstruct}
	ActionNorth     = &ShipAction{halite.CmdNorth}
	ActionEast      = &ShipAction{halite.CmdEast}
	ActionSouth     = &ShipAction{halite.CmdSouth}
	ActionWest      = &ShipAction{halite.CmdWest}

	shipActions    = []rl.Action{ActionNothing, ActionConstruct, ActionNorth, ActionEast, ActionSouth, ActionWest}
	factoryActions = []rl.Action{ActionNothing, ActionSpawn}
)

// ShipState is the coarse observation of the entity currently being
// commanded. The hash buckets cargo, cell halite, bank and turn so the
// tabular policies can generalize across nearby situations.
type ShipState struct {
	Entity     halite.Point
	Factory    bool
	Cargo      int
	CellHalite int
	Bank       int
	Turn       int

	reward float64
	done   bool
}

var (
	_ rl.State      = &ShipState{}
	_ rl.Rewarder   = &ShipState{}
	_ rl.Positioned = &ShipState{}
)

func (st *ShipState) Hash() string {
	kind := "s"
	if st.Factory {
		kind = "f"
	}
	return fmt.Sprintf("%s(%d,%d)c%dh%db%dt%d",
		kind, st.Entity.X, st.Entity.Y,
		st.Cargo/100, st.CellHalite/50, st.Bank/1000, st.Turn/50)
}

func (st *ShipState) Actions() []rl.Action {
	if st.done {
		return nil
	}
	if st.Factory {
		return factoryActions
	}
	return shipActions
}

func (st *ShipState) Reward() float64 {
	return st.reward
}

func (st *ShipState) Done() bool {
	return st.done
}

func (st *ShipState) Position() (int, int) {
	return st.Entity.X, st.Entity.Y
}
