package benchmarks

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rmohan/halite-rl-env/halite"
	"github.com/rmohan/halite-rl-env/haliteenv"
)

// StepBenchmark measures the wall time of full engine turns with every
// player driven by the scripted bot.
func StepBenchmark(players, size int, seed uint64, games int) error {
	consts, err := loadConstants()
	if err != nil {
		return err
	}
	env, err := haliteenv.NewEnv(haliteenv.EnvConfig{
		Players:   players,
		Size:      halite.MapSize(size),
		MapType:   halite.MapFractal,
		Seed:      seed,
		Constants: consts,
	})
	if err != nil {
		return err
	}

	totalSteps := 0
	var totalTime time.Duration
	for g := 0; g < games; g++ {
		bots := make([]*haliteenv.GreedyBot, players)
		for p := 1; p <= players; p++ {
			bots[p-1] = haliteenv.NewGreedyBot(p, seed+uint64(p))
		}
		for {
			cmds := make([]halite.CommandSet, players)
			for i, bot := range bots {
				cmds[i] = bot.Commands(env.Game())
			}
			start := time.Now()
			_, _, done, err := env.Step(cmds)
			totalTime += time.Since(start)
			if err != nil {
				return err
			}
			totalSteps++
			if done {
				break
			}
		}
		log.Debug().Int("game", g+1).
			Int("halite_left", env.Game().Board.TotalHalite()).
			Msg("game simulated")
		if _, err := env.Reset(); err != nil {
			return err
		}
	}

	perStep := totalTime / time.Duration(totalSteps)
	log.Info().
		Int("games", games).
		Int("steps", totalSteps).
		Dur("total", totalTime).
		Dur("per_step", perStep).
		Float64("steps_per_sec", float64(totalSteps)/totalTime.Seconds()).
		Msg("step benchmark")
	return nil
}

func BenchCommand() *cobra.Command {
	var players int
	var size int
	var seed uint64
	var games int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure per-turn simulation latency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return StepBenchmark(players, size, seed, games)
		},
	}
	cmd.PersistentFlags().IntVar(&players, "players", 2, "Number of players")
	cmd.PersistentFlags().IntVar(&size, "size", int(halite.MapMedium), "Map size (32, 40, 48, 56, 64)")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", 42, "Map generation seed")
	cmd.PersistentFlags().IntVar(&games, "games", 3, "Number of full games to simulate")
	return cmd
}
