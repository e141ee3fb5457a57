// Package benchmarks wires the environments, policies and analysis into
// runnable cobra commands.
package benchmarks

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	episodes   int
	horizon    int
	savePath   string
	runs       int
	logLevel   string
	configPath string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:               "halite-rl",
		Short:             "Halite III gym environment and RL benchmarks",
		PersistentPreRunE: setup,
	}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 1000, "Number of episodes to run")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", 2000, "Horizon of each episode")
	rootCommand.PersistentFlags().StringVarP(&savePath, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 1, "Number of experiment runs")
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCommand.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Optional YAML file overriding the game constants")
	// adding the subcommands here
	rootCommand.AddCommand(HaliteCommand())
	rootCommand.AddCommand(MiniCommand())
	rootCommand.AddCommand(BenchCommand())
	rootCommand.AddCommand(RenderCommand())
	rootCommand.AddCommand(ServeCommand())
	return rootCommand
}

func setup(cmd *cobra.Command, args []string) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	return nil
}
