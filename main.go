package main

import (
	"fmt"
	"os"

	"github.com/rmohan/halite-rl-env/benchmarks"
)

// main entry point to the environment benchmarks and the HTTP service
func main() {
	rootCommand := benchmarks.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
