package rl

type AgentConfig struct {
	Episodes    int
	Horizon     int
	Policy      Policy
	Environment Environment
}

// RL Agent configured with the corresponding
// policy and environment
type Agent struct {
	config      *AgentConfig
	policy      Policy
	environment Environment
}

// Instantiates a new Agent
func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:      config,
		policy:      config.Policy,
		environment: config.Environment,
	}
}

// RunEpisode runs a single episode up to the horizon and returns the
// resulting trace. The episode ends early when the environment reports a
// terminal state or no action is available.
func (a *Agent) RunEpisode(episode int) (*Trace, error) {
	trace := NewTrace()
	state, err := a.environment.Reset()
	if err != nil {
		return trace, err
	}
	actions := state.Actions()

	for i := 0; i < a.config.Horizon; i++ {
		if len(actions) == 0 {
			break
		}
		nextAction, ok := a.policy.NextAction(i, state, actions)
		if !ok {
			break
		}
		nextState, err := a.environment.Step(nextAction)
		if err != nil {
			return trace, err
		}
		reward, done := RewardOf(nextState)
		a.policy.Update(i, state, nextAction, reward, nextState)
		trace.Append(state, nextAction, reward, nextState)

		if done {
			break
		}
		state = nextState
		actions = nextState.Actions()
	}
	a.policy.UpdateIteration(episode, trace)

	return trace, nil
}
