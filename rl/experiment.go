package rl

import (
	"context"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/rs/zerolog/log"
)

// TraceSink receives the trace of every finished episode. Implementations
// live in the store package.
type TraceSink interface {
	Append(experiment string, run int, t *Trace) error
	Close() error
}

// Experiment pairs a named policy with an environment.
type Experiment struct {
	Name   string
	config *AgentConfig
	Result []*Trace
}

func NewExperiment(name string, config *AgentConfig) *Experiment {
	return &Experiment{
		Name:   name,
		config: config,
		Result: make([]*Trace, 0),
	}
}

// Run executes the configured number of episodes, collecting traces and
// forwarding them to the sink when one is set.
func (e *Experiment) Run(ctx context.Context, run int, sink TraceSink) error {
	log.Info().Str("experiment", e.Name).Int("run", run).
		Int("episodes", e.config.Episodes).Int("horizon", e.config.Horizon).
		Msg("running experiment")

	agent := NewAgent(e.config)
	e.Result = make([]*Trace, 0, e.config.Episodes)
	errored := 0
	for i := 0; i < e.config.Episodes; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		fmt.Printf("\rExperiment: %s, Episode: %d/%d", e.Name, i+1, e.config.Episodes)
		trace, err := agent.RunEpisode(i)
		if err != nil {
			errored++
			log.Warn().Err(err).Str("experiment", e.Name).Int("episode", i).Msg("episode failed")
		}
		e.Result = append(e.Result, trace)
		if sink != nil {
			if err := sink.Append(e.Name, run, trace); err != nil {
				log.Warn().Err(err).Str("experiment", e.Name).Msg("recording trace")
			}
		}
	}
	fmt.Println("")
	log.Info().Str("experiment", e.Name).Int("errored", errored).Msg("experiment done")
	return nil
}

// Reset clears the collected traces and the policy state between runs.
func (e *Experiment) Reset() {
	e.Result = make([]*Trace, 0)
	e.config.Policy.Reset()
}

// RecordPolicy dumps the policy internals when the policy supports it.
func (e *Experiment) RecordPolicy(basePath string, run int) {
	rec, ok := e.config.Policy.(Recorder)
	if !ok {
		return
	}
	folder := path.Join(basePath, "policies")
	if _, err := os.Stat(folder); err != nil {
		os.MkdirAll(folder, os.ModePerm)
	}
	p := path.Join(folder, e.Name+"_"+strconv.Itoa(run))
	if err := rec.Record(p); err != nil {
		log.Warn().Err(err).Str("experiment", e.Name).Msg("recording policy")
	}
}

// Generic Dataset that contains information after processing the traces
type DataSet interface{}

// Analyzer compresses the traces of one experiment into a DataSet
type Analyzer func(name string, traces []*Trace) DataSet

// Comparator differentiates between datasets with associated names
type Comparator func(run int, names []string, ds []DataSet)

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Runs         int
	RecordPolicy bool
	RecordPath   string
}

// Comparison contains the different experiments to compare.
// The traces obtained from the experiments are analyzed,
// the analyzed datasets are then compared.
type Comparison struct {
	Experiments []*Experiment
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
	config      *ComparisonConfig
	sink        TraceSink
}

func NewComparison(config *ComparisonConfig) *Comparison {
	if config.Runs < 1 {
		config.Runs = 1
	}
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
		config:      config,
	}
}

// AddAnalysis adds an analyzer and comparator pair to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// SetSink routes episode traces to the given sink.
func (c *Comparison) SetSink(sink TraceSink) {
	c.sink = sink
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) error {
	for run := 0; run < c.config.Runs; run++ {
		log.Info().Int("run", run+1).Int("total", c.config.Runs).Msg("comparison run")
		datasets := make(map[string][]DataSet)
		for name := range c.analyzers {
			datasets[name] = make([]DataSet, len(c.Experiments))
		}
		names := make([]string, len(c.Experiments))

		for i, e := range c.Experiments {
			if err := e.Run(ctx, run, c.sink); err != nil {
				return err
			}
			for name, a := range c.analyzers {
				datasets[name][i] = a(e.Name, e.Result)
			}
			names[i] = e.Name
			if c.config.RecordPolicy {
				e.RecordPolicy(c.config.RecordPath, run)
			}
			e.Reset()
		}
		for name, comp := range c.comparators {
			comp(run, names, datasets[name])
		}
	}
	return nil
}
