package benchmarks

import (
	"fmt"
	"os"
	"path"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rmohan/halite-rl-env/halite"
	"github.com/rmohan/halite-rl-env/haliteenv"
	"github.com/rmohan/halite-rl-env/rl"
)

// RenderEpisode plays one bot-vs-bot game and saves heat maps of the sea
// halite and cargo layers every few turns.
func RenderEpisode(players, size int, seed uint64, every int) error {
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
	outPath := path.Join(savePath, "render")
	if err := os.MkdirAll(outPath, os.ModePerm); err != nil {
		return err
	}

	bots := make([]*haliteenv.GreedyBot, players)
	for p := 1; p <= players; p++ {
		bots[p-1] = haliteenv.NewGreedyBot(p, seed+uint64(p))
	}

	for {
		game := env.Game()
		if game.Turn%every == 0 {
			if err := saveLayer(game.Board.Halite, game.Board, outPath, "halite", game.Turn); err != nil {
				return err
			}
			if err := saveLayer(game.Board.Cargo, game.Board, outPath, "cargo", game.Turn); err != nil {
				return err
			}
		}
		cmds := make([]halite.CommandSet, players)
		for i, bot := range bots {
			cmds[i] = bot.Commands(game)
		}
		_, _, done, err := env.Step(cmds)
		if err != nil {
			return err
		}
		if done {
			break
		}
	}
	log.Info().Str("path", outPath).Msg("episode rendered")
	return nil
}

func saveLayer(vals []int, b *halite.Board, outPath, name string, turn int) error {
	w, err := rl.LayerHeatMap(vals, b.Width, b.Height, fmt.Sprintf("%s turn %d", name, turn))
	if err != nil {
		return err
	}
	f, err := os.Create(path.Join(outPath, fmt.Sprintf("%s_%04d.png", name, turn)))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = w.WriteTo(f)
	return err
}

func RenderCommand() *cobra.Command {
	var players int
	var size int
	var seed uint64
	var every int

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Play a bot game and save board heat maps",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RenderEpisode(players, size, seed, every)
		},
	}
	cmd.PersistentFlags().IntVar(&players, "players", 2, "Number of players")
	cmd.PersistentFlags().IntVar(&size, "size", int(halite.MapTiny), "Map size (32, 40, 48, 56, 64)")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", 42, "Map generation seed")
	cmd.PersistentFlags().IntVar(&every, "every", 50, "Turns between snapshots")
	return cmd
}
