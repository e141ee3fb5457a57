package rl

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

type Policy interface {
	// NextAction picks an action for the current step
	NextAction(int, State, []Action) (Action, bool)
	// Update with the observed transition and reward
	Update(int, State, Action, float64, State)
	// UpdateIteration called once per episode with the full trace
	UpdateIteration(int, *Trace)
	Reset()
}

// Recorder is implemented by policies that can dump their internals to disk.
type Recorder interface {
	Record(path string) error
}

// RandomPolicy picks uniformly among the available actions.
type RandomPolicy struct {
	rand *rand.Rand
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy() *RandomPolicy {
	return &RandomPolicy{
		rand: rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func (r *RandomPolicy) Reset() {}

func (r *RandomPolicy) UpdateIteration(_ int, _ *Trace) {}

func (r *RandomPolicy) NextAction(step int, state State, actions []Action) (Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	i := r.rand.Intn(len(actions))
	return actions[i], true
}

func (r *RandomPolicy) Update(_ int, _ State, _ Action, _ float64, _ State) {}

// SoftMaxPolicy samples actions with probability proportional to exp(Q) and
// learns Q with the standard one-step update on the environment reward.
type SoftMaxPolicy struct {
	qTable *QTable
	alpha  float64
	gamma  float64
}

var _ Policy = &SoftMaxPolicy{}

func NewSoftMaxPolicy(alpha, gamma float64) *SoftMaxPolicy {
	return &SoftMaxPolicy{
		qTable: NewQTable(),
		alpha:  alpha,
		gamma:  gamma,
	}
}

func (s *SoftMaxPolicy) Reset() {
	s.qTable = NewQTable()
}

func (s *SoftMaxPolicy) Record(path string) error {
	return s.qTable.Record(path)
}

func (s *SoftMaxPolicy) UpdateIteration(_ int, _ *Trace) {}

func (s *SoftMaxPolicy) NextAction(step int, state State, actions []Action) (Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	stateHash := state.Hash()

	sum := float64(0)
	vals := make([]float64, len(actions))
	for i, action := range actions {
		exp := math.Exp(s.qTable.Get(stateHash, action.Hash(), 0))
		vals[i] = exp
		sum += exp
	}
	weights := make([]float64, len(actions))
	for i, v := range vals {
		weights[i] = v / sum
	}
	i, ok := sampleuv.NewWeighted(weights, nil).Take()
	if !ok {
		return nil, false
	}
	return actions[i], true
}

func (s *SoftMaxPolicy) Update(step int, state State, action Action, reward float64, nextState State) {
	stateHash := state.Hash()
	actionHash := action.Hash()
	curVal := s.qTable.Get(stateHash, actionHash, 0)
	_, nextVal := s.qTable.Max(nextState.Hash(), 0)
	newVal := (1-s.alpha)*curVal + s.alpha*(reward+s.gamma*nextVal)
	s.qTable.Set(stateHash, actionHash, newVal)
}

// GreedyPolicy is epsilon-greedy Q-learning on the environment reward.
type GreedyPolicy struct {
	qTable  *QTable
	alpha   float64
	gamma   float64
	epsilon float64
	rand    *rand.Rand
}

var _ Policy = &GreedyPolicy{}

func NewGreedyPolicy(alpha, gamma, epsilon float64) *GreedyPolicy {
	return &GreedyPolicy{
		qTable:  NewQTable(),
		alpha:   alpha,
		gamma:   gamma,
		epsilon: epsilon,
		rand:    rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func (g *GreedyPolicy) Reset() {
	g.qTable = NewQTable()
}

func (g *GreedyPolicy) Record(path string) error {
	return g.qTable.Record(path)
}

func (g *GreedyPolicy) UpdateIteration(_ int, _ *Trace) {}

func (g *GreedyPolicy) NextAction(step int, state State, actions []Action) (Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	if g.rand.Float64() < g.epsilon {
		return actions[g.rand.Intn(len(actions))], true
	}

	actionsMap := make(map[string]Action)
	available := make([]string, len(actions))
	for i, a := range actions {
		aHash := a.Hash()
		actionsMap[aHash] = a
		available[i] = aHash
	}
	best, _ := g.qTable.MaxAmong(state.Hash(), available, 0)
	if best == "" {
		return nil, false
	}
	return actionsMap[best], true
}

func (g *GreedyPolicy) Update(step int, state State, action Action, reward float64, nextState State) {
	stateHash := state.Hash()
	actionHash := action.Hash()
	curVal := g.qTable.Get(stateHash, actionHash, 0)
	_, nextVal := g.qTable.Max(nextState.Hash(), 0)
	newVal := (1-g.alpha)*curVal + g.alpha*(reward+g.gamma*nextVal)
	g.qTable.Set(stateHash, actionHash, newVal)
}
