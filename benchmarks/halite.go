package benchmarks

import (
	"context"
	"os"
	"os/signal"
	"path"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rmohan/halite-rl-env/halite"
	"github.com/rmohan/halite-rl-env/haliteenv"
	"github.com/rmohan/halite-rl-env/rl"
	"github.com/rmohan/halite-rl-env/store"
)

// HaliteBenchmark compares the tabular policies on the ship environment.
func HaliteBenchmark(players, size int, seed uint64, redisAddr string) error {
	consts, err := loadConstants()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	envConfig := haliteenv.EnvConfig{
		Players:   players,
		Size:      halite.MapSize(size),
		MapType:   halite.MapFractal,
		Seed:      seed,
		Constants: consts,
	}

	var sink rl.TraceSink
	if redisAddr != "" {
		sink, err = store.NewRedisSink(ctx, redisAddr)
	} else {
		sink, err = store.NewFileSink(savePath)
	}
	if err != nil {
		return err
	}
	defer sink.Close()

	c := rl.NewComparison(&rl.ComparisonConfig{
		Runs:         runs,
		RecordPolicy: true,
		RecordPath:   savePath,
	})
	c.SetSink(sink)

	plotPath := path.Join(savePath, "plots")
	c.AddAnalysis("coverage", rl.CoverageAnalyzer(), rl.CoveragePlotter(plotPath))
	c.AddAnalysis("reward", rl.RewardAnalyzer(), rl.RewardPlotter(plotPath))
	c.AddAnalysis("visits", rl.VisitAnalyzer(), rl.VisitHeatMapPlotter(plotPath))

	for _, exp := range []struct {
		name   string
		policy rl.Policy
	}{
		{"random", rl.NewRandomPolicy()},
		{"softmax", rl.NewSoftMaxPolicy(0.3, 0.7)},
		{"greedy", rl.NewGreedyPolicy(0.3, 0.95, 0.05)},
	} {
		env, err := haliteenv.NewShipEnv(envConfig)
		if err != nil {
			return err
		}
		c.AddExperiment(rl.NewExperiment(exp.name, &rl.AgentConfig{
			Episodes:    episodes,
			Horizon:     horizon,
			Policy:      exp.policy,
			Environment: env,
		}))
	}

	if err := c.Run(ctx); err != nil {
		return err
	}
	log.Info().Str("save", savePath).Msg("benchmark finished")
	return nil
}

func HaliteCommand() *cobra.Command {
	var players int
	var size int
	var seed uint64
	var redisAddr string

	cmd := &cobra.Command{
		Use:   "halite",
		Short: "Compare tabular policies on the Halite ship environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return HaliteBenchmark(players, size, seed, redisAddr)
		},
	}
	cmd.PersistentFlags().IntVar(&players, "players", 2, "Number of players")
	cmd.PersistentFlags().IntVar(&size, "size", int(halite.MapTiny), "Map size (32, 40, 48, 56, 64)")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", 42, "Map generation seed")
	cmd.PersistentFlags().StringVar(&redisAddr, "redis", "", "Record traces to the redis server at this address instead of files")
	return cmd
}
