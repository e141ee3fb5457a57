package rl

import (
	"encoding/json"
	"os"
)

// QTable maps state hashes to action values.
type QTable struct {
	vals map[string]map[string]float64
}

func NewQTable() *QTable {
	return &QTable{
		vals: make(map[string]map[string]float64),
	}
}

func (q *QTable) Get(state, action string, def float64) float64 {
	if actions, ok := q.vals[state]; ok {
		if v, ok := actions[action]; ok {
			return v
		}
	}
	return def
}

func (q *QTable) Set(state, action string, val float64) {
	if _, ok := q.vals[state]; !ok {
		q.vals[state] = make(map[string]float64)
	}
	q.vals[state][action] = val
}

// Max returns the best action and value recorded for the state, or ("", def)
// when the state is unknown.
func (q *QTable) Max(state string, def float64) (string, float64) {
	actions, ok := q.vals[state]
	if !ok || len(actions) == 0 {
		return "", def
	}
	best := ""
	bestVal := 0.0
	first := true
	for a, v := range actions {
		if first || v > bestVal {
			best = a
			bestVal = v
			first = false
		}
	}
	return best, bestVal
}

// MaxAmong returns the best of the given actions, treating unrecorded ones as
// having the default value.
func (q *QTable) MaxAmong(state string, actions []string, def float64) (string, float64) {
	if len(actions) == 0 {
		return "", def
	}
	best := actions[0]
	bestVal := q.Get(state, actions[0], def)
	for _, a := range actions[1:] {
		if v := q.Get(state, a, def); v > bestVal {
			best = a
			bestVal = v
		}
	}
	return best, bestVal
}

func (q *QTable) States() int {
	return len(q.vals)
}

// Record dumps the table as JSON to the given path.
func (q *QTable) Record(path string) error {
	bs, err := json.Marshal(q.vals)
	if err != nil {
		return err
	}
	return os.WriteFile(path+".json", bs, 0644)
}
