package rl

import "encoding/json"

// Trace of an episode as tuples (state, action, reward, nextState)
type Trace struct {
	states     []State
	actions    []Action
	rewards    []float64
	nextStates []State
}

func NewTrace() *Trace {
	return &Trace{
		states:     make([]State, 0),
		actions:    make([]Action, 0),
		rewards:    make([]float64, 0),
		nextStates: make([]State, 0),
	}
}

func (t *Trace) Append(state State, action Action, reward float64, nextState State) {
	t.states = append(t.states, state)
	t.actions = append(t.actions, action)
	t.rewards = append(t.rewards, reward)
	t.nextStates = append(t.nextStates, nextState)
}

func (t *Trace) Len() int {
	return len(t.states)
}

func (t *Trace) Get(i int) (State, Action, float64, State, bool) {
	if i >= len(t.states) {
		return nil, nil, 0, nil, false
	}
	return t.states[i], t.actions[i], t.rewards[i], t.nextStates[i], true
}

func (t *Trace) Last() (State, Action, float64, State, bool) {
	if len(t.states) < 1 {
		return nil, nil, 0, nil, false
	}
	last := len(t.states) - 1
	return t.states[last], t.actions[last], t.rewards[last], t.nextStates[last], true
}

// TotalReward accumulated over the episode.
func (t *Trace) TotalReward() float64 {
	total := 0.0
	for _, r := range t.rewards {
		total += r
	}
	return total
}

type traceEntry struct {
	State     string  `json:"state"`
	Action    string  `json:"action"`
	Reward    float64 `json:"reward"`
	NextState string  `json:"next_state"`
}

// MarshalJSON serializes the trace as hashes, which is what the sinks store.
func (t *Trace) MarshalJSON() ([]byte, error) {
	entries := make([]traceEntry, len(t.states))
	for i := range t.states {
		entries[i] = traceEntry{
			State:     t.states[i].Hash(),
			Action:    t.actions[i].Hash(),
			Reward:    t.rewards[i],
			NextState: t.nextStates[i].Hash(),
		}
	}
	return json.Marshal(entries)
}
