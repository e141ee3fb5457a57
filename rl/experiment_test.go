package rl

import (
	"context"
	"os"
	"path"
	"testing"
)

type memorySink struct {
	appends map[string]int
	closed  bool
}

func newMemorySink() *memorySink {
	return &memorySink{appends: make(map[string]int)}
}

func (m *memorySink) Append(experiment string, run int, t *Trace) error {
	m.appends[experiment]++
	return nil
}

func (m *memorySink) Close() error {
	m.closed = true
	return nil
}

func TestExperimentForwardsTraces(t *testing.T) {
	sink := newMemorySink()
	e := NewExperiment("random", &AgentConfig{
		Episodes:    5,
		Horizon:     20,
		Policy:      NewRandomPolicy(),
		Environment: &chainEnv{goal: 3},
	})
	if err := e.Run(context.Background(), 0, sink); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(e.Result) != 5 {
		t.Errorf("collected %d traces, want 5", len(e.Result))
	}
	if sink.appends["random"] != 5 {
		t.Errorf("sink received %d traces, want 5", sink.appends["random"])
	}
}

func TestExperimentHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewExperiment("random", &AgentConfig{
		Episodes:    5,
		Horizon:     20,
		Policy:      NewRandomPolicy(),
		Environment: &chainEnv{goal: 3},
	})
	if err := e.Run(ctx, 0, nil); err == nil {
		t.Errorf("expected a context error")
	}
}

func TestComparisonRunsAnalyses(t *testing.T) {
	comp := NewComparison(&ComparisonConfig{Runs: 2})
	var got [][]DataSet
	comp.AddAnalysis("reward", RewardAnalyzer(), func(run int, names []string, ds []DataSet) {
		got = append(got, ds)
	})
	comp.AddExperiment(NewExperiment("a", &AgentConfig{
		Episodes:    3,
		Horizon:     10,
		Policy:      NewRandomPolicy(),
		Environment: &chainEnv{goal: 2},
	}))
	comp.AddExperiment(NewExperiment("b", &AgentConfig{
		Episodes:    3,
		Horizon:     10,
		Policy:      NewGreedyPolicy(0.3, 0.9, 0.1),
		Environment: &chainEnv{goal: 2},
	}))

	if err := comp.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("comparator called %d times, want once per run", len(got))
	}
	for run, ds := range got {
		if len(ds) != 2 {
			t.Fatalf("run %d compared %d datasets, want 2", run, len(ds))
		}
		for i, d := range ds {
			series, ok := d.([]float64)
			if !ok || len(series) != 3 {
				t.Errorf("run %d experiment %d: unexpected dataset %v", run, i, d)
			}
		}
	}
}

func TestComparisonResetsBetweenExperiments(t *testing.T) {
	policy := NewGreedyPolicy(0.3, 0.9, 0.1)
	comp := NewComparison(&ComparisonConfig{Runs: 1})
	comp.AddExperiment(NewExperiment("greedy", &AgentConfig{
		Episodes:    3,
		Horizon:     10,
		Policy:      policy,
		Environment: &chainEnv{goal: 2},
	}))
	if err := comp.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if policy.qTable.States() != 0 {
		t.Errorf("policy not reset after the run")
	}
}

func TestRecordPolicy(t *testing.T) {
	dir := t.TempDir()
	policy := NewGreedyPolicy(0.3, 0.9, 0.1)
	policy.qTable.Set("s", "a", 1)
	e := NewExperiment("greedy", &AgentConfig{Policy: policy})
	e.RecordPolicy(dir, 0)

	if _, err := os.Stat(path.Join(dir, "policies", "greedy_0.json")); err != nil {
		t.Errorf("policy dump missing: %v", err)
	}
}
