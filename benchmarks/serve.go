package benchmarks

import (
	"github.com/spf13/cobra"

	"github.com/rmohan/halite-rl-env/server"
)

func ServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve environment sessions over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			consts, err := loadConstants()
			if err != nil {
				return err
			}
			return server.New(consts).Run(addr)
		},
	}
	cmd.PersistentFlags().StringVar(&addr, "addr", "127.0.0.1:8080", "Address to listen on")
	return cmd
}
