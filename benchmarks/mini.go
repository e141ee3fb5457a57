package benchmarks

import (
	"context"
	"os"
	"os/signal"
	"path"

	"github.com/spf13/cobra"

	"github.com/rmohan/halite-rl-env/halite"
	"github.com/rmohan/halite-rl-env/haliteenv"
	"github.com/rmohan/halite-rl-env/rl"
)

// MiniBenchmark is a fast sanity check on a flat 8x8 single-player board.
// Useful for eyeballing that the policies learn anything at all before
// paying for a full map.
func MiniBenchmark(seed uint64) error {
	consts, err := loadConstants()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	envConfig := haliteenv.EnvConfig{
		Players:   1,
		Size:      8,
		MapType:   halite.MapBasic,
		Seed:      seed,
		Constants: consts,
	}

	c := rl.NewComparison(&rl.ComparisonConfig{Runs: runs, RecordPath: savePath})
	plotPath := path.Join(savePath, "plots")
	c.AddAnalysis("coverage", rl.CoverageAnalyzer(), rl.CoveragePlotter(plotPath))
	c.AddAnalysis("reward", rl.RewardAnalyzer(), rl.RewardPlotter(plotPath))

	for _, exp := range []struct {
		name   string
		policy rl.Policy
	}{
		{"random", rl.NewRandomPolicy()},
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
	return c.Run(ctx)
}

func MiniCommand() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "mini",
		Short: "Sanity benchmark on a miniature flat board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return MiniBenchmark(seed)
		},
	}
	cmd.PersistentFlags().Uint64Var(&seed, "seed", 42, "Map generation seed")
	return cmd
}
