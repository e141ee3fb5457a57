package rl

// Environment is the gym-style contract: Reset starts a fresh episode and
// Step applies one action.
type Environment interface {
	// Reset called at the start of each episode
	Reset() (State, error)
	// Step applies the action and returns the resulting state
	Step(Action) (State, error)
}

// State of the system that RL policies observe
type State interface {
	// Indexed by the Hash
	// Should be deterministic
	Hash() string
	// Actions possible from the state
	Actions() []Action
}

// An Action that the RL policy can take
type Action interface {
	// Index of the action
	// Should be deterministic
	Hash() string
}

// Rewarder is implemented by states that carry the reward earned on the
// transition that produced them, and whether the episode has terminated.
type Rewarder interface {
	Reward() float64
	Done() bool
}

// RewardOf extracts reward and termination from a state, defaulting to
// (0, false) for states that do not carry them.
func RewardOf(s State) (float64, bool) {
	if r, ok := s.(Rewarder); ok {
		return r.Reward(), r.Done()
	}
	return 0, false
}

// Positioned is implemented by states tied to a board cell. Analyzers use it
// to build visit heat maps.
type Positioned interface {
	Position() (x, y int)
}

type StateAbstractor func(State) string
