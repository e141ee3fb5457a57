package rl

import (
	"testing"
)

// chainEnv is a tiny deterministic environment for harness tests: positions
// 0..goal on a line, "right" moves toward the goal, "left" away. Reaching the
// goal pays 1 and terminates.
type chainEnv struct {
	pos  int
	goal int
}

func (c *chainEnv) Reset() (State, error) {
	c.pos = 0
	return &chainState{pos: 0, goal: c.goal}, nil
}

func (c *chainEnv) Step(a Action) (State, error) {
	switch a.Hash() {
	case "right":
		c.pos++
	case "left":
		if c.pos > 0 {
			c.pos--
		}
	}
	s := &chainState{pos: c.pos, goal: c.goal}
	if c.pos >= c.goal {
		s.reward = 1
		s.done = true
	}
	return s, nil
}

type chainState struct {
	pos, goal int
	reward    float64
	done      bool
}

func (s *chainState) Hash() string {
	return string(rune('a' + s.pos))
}

func (s *chainState) Actions() []Action {
	if s.done {
		return nil
	}
	return []Action{chainAction("left"), chainAction("right")}
}

func (s *chainState) Reward() float64 { return s.reward }
func (s *chainState) Done() bool      { return s.done }
func (s *chainState) Position() (int, int) {
	return s.pos, 0
}

type chainAction string

func (a chainAction) Hash() string { return string(a) }

func TestAgentEpisodeTerminates(t *testing.T) {
	env := &chainEnv{goal: 3}
	agent := NewAgent(&AgentConfig{
		Episodes:    1,
		Horizon:     100,
		Policy:      NewRandomPolicy(),
		Environment: env,
	})
	trace, err := agent.RunEpisode(0)
	if err != nil {
		t.Fatalf("RunEpisode: %v", err)
	}
	if trace.Len() == 0 {
		t.Fatalf("empty trace")
	}
	_, _, reward, last, ok := trace.Last()
	if !ok {
		t.Fatalf("no last entry")
	}
	if trace.Len() < 100 {
		// terminated before the horizon, so the goal must have been reached
		if reward != 1 {
			t.Errorf("terminal reward = %f, want 1", reward)
		}
		if r, _ := last.(Rewarder); !r.Done() {
			t.Errorf("last state not terminal")
		}
	}
}

func TestAgentHonorsHorizon(t *testing.T) {
	env := &chainEnv{goal: 1 << 20}
	agent := NewAgent(&AgentConfig{
		Episodes:    1,
		Horizon:     10,
		Policy:      NewRandomPolicy(),
		Environment: env,
	})
	trace, err := agent.RunEpisode(0)
	if err != nil {
		t.Fatalf("RunEpisode: %v", err)
	}
	if trace.Len() != 10 {
		t.Errorf("trace length %d, want the horizon 10", trace.Len())
	}
}

func TestGreedyPolicyLearnsChain(t *testing.T) {
	env := &chainEnv{goal: 3}
	policy := NewGreedyPolicy(0.5, 0.9, 0.2)
	agent := NewAgent(&AgentConfig{
		Episodes:    200,
		Horizon:     50,
		Policy:      policy,
		Environment: env,
	})
	for ep := 0; ep < 200; ep++ {
		if _, err := agent.RunEpisode(ep); err != nil {
			t.Fatalf("episode %d: %v", ep, err)
		}
	}
	// after training, "right" must dominate "left" on the start state
	right := policy.qTable.Get("a", "right", 0)
	left := policy.qTable.Get("a", "left", 0)
	if right <= left {
		t.Errorf("policy did not learn: Q(right)=%f Q(left)=%f", right, left)
	}
}

func TestSoftMaxPolicyLearnsChain(t *testing.T) {
	env := &chainEnv{goal: 2}
	policy := NewSoftMaxPolicy(0.5, 0.9)
	agent := NewAgent(&AgentConfig{
		Episodes:    200,
		Horizon:     50,
		Policy:      policy,
		Environment: env,
	})
	for ep := 0; ep < 200; ep++ {
		if _, err := agent.RunEpisode(ep); err != nil {
			t.Fatalf("episode %d: %v", ep, err)
		}
	}
	right := policy.qTable.Get("a", "right", 0)
	left := policy.qTable.Get("a", "left", 0)
	if right <= left {
		t.Errorf("policy did not learn: Q(right)=%f Q(left)=%f", right, left)
	}
}

func TestPolicyResetClearsTable(t *testing.T) {
	policy := NewGreedyPolicy(0.5, 0.9, 0.1)
	policy.qTable.Set("s", "a", 1.0)
	policy.Reset()
	if policy.qTable.States() != 0 {
		t.Errorf("reset did not clear the table")
	}
}

func TestTraceTotals(t *testing.T) {
	trace := NewTrace()
	s0 := &chainState{pos: 0}
	s1 := &chainState{pos: 1}
	s2 := &chainState{pos: 2}
	trace.Append(s0, chainAction("right"), 0.5, s1)
	trace.Append(s1, chainAction("right"), 1.5, s2)

	if trace.Len() != 2 {
		t.Errorf("len = %d", trace.Len())
	}
	if got := trace.TotalReward(); got != 2.0 {
		t.Errorf("total reward = %f", got)
	}
	_, a, r, _, ok := trace.Get(1)
	if !ok || a.Hash() != "right" || r != 1.5 {
		t.Errorf("Get(1) returned %v %f %v", a, r, ok)
	}
	if _, _, _, _, ok := trace.Get(5); ok {
		t.Errorf("Get past the end reported ok")
	}
}

func TestTraceJSON(t *testing.T) {
	trace := NewTrace()
	trace.Append(&chainState{pos: 0}, chainAction("right"), 1, &chainState{pos: 1})
	bs, err := trace.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `[{"state":"a","action":"right","reward":1,"next_state":"b"}]`
	if string(bs) != want {
		t.Errorf("got %s, want %s", bs, want)
	}
}
