// Package haliteenv exposes the Halite III engine as gym-style environments.
// Env is the faithful multi-player simulator, ShipEnv flattens it into the
// single-agent contract the RL harness expects.
package haliteenv

import (
	"fmt"

	"github.com/rmohan/halite-rl-env/halite"
)

type EnvConfig struct {
	Players   int
	Size      halite.MapSize
	MapType   halite.MapType
	Seed      uint64
	Constants halite.Constants
}

func (c EnvConfig) validate() error {
	if c.Players < 1 {
		return fmt.Errorf("at least one player required, got %d", c.Players)
	}
	if c.MapType == halite.MapFractal && !c.Size.Valid() {
		return fmt.Errorf("invalid map size %d", c.Size)
	}
	return nil
}

// Env is the multi-player Halite environment. Step takes one command set per
// player and returns the observation, the per-player rewards and the done
// flag. Reset regenerates the map; successive resets use successive seeds so
// episodes stay reproducible without repeating the same map.
type Env struct {
	cfg    EnvConfig
	game   *halite.Game
	resets uint64
}

func NewEnv(cfg EnvConfig) (*Env, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	e := &Env{cfg: cfg}
	if _, err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Env) Reset() (*halite.Observation, error) {
	game, err := halite.NewGame(halite.Config{
		Players:   e.cfg.Players,
		Size:      e.cfg.Size,
		MapType:   e.cfg.MapType,
		Seed:      e.cfg.Seed + e.resets,
		Constants: e.cfg.Constants,
	})
	if err != nil {
		return nil, err
	}
	e.game = game
	e.resets++
	return game.Observation(), nil
}

func (e *Env) Step(cmds []halite.CommandSet) (*halite.Observation, []float64, bool, error) {
	rewards, done, err := e.game.Step(cmds)
	if err != nil {
		return nil, nil, e.game.Done(), err
	}
	return e.game.Observation(), rewards, done, nil
}

// Game gives direct access to the running match, mainly for bots and
// rendering.
func (e *Env) Game() *halite.Game {
	return e.game
}
