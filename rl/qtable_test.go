package rl

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestQTableGetSet(t *testing.T) {
	q := NewQTable()
	if got := q.Get("s", "a", -1); got != -1 {
		t.Errorf("default not returned, got %f", got)
	}
	q.Set("s", "a", 2.5)
	if got := q.Get("s", "a", -1); got != 2.5 {
		t.Errorf("got %f, want 2.5", got)
	}
	if q.States() != 1 {
		t.Errorf("states = %d", q.States())
	}
}

func TestQTableMax(t *testing.T) {
	q := NewQTable()
	if a, v := q.Max("s", 7); a != "" || v != 7 {
		t.Errorf("unknown state: got %q %f", a, v)
	}
	q.Set("s", "a", 1)
	q.Set("s", "b", 3)
	q.Set("s", "c", -2)
	if a, v := q.Max("s", 0); a != "b" || v != 3 {
		t.Errorf("got %q %f, want b 3", a, v)
	}
}

func TestQTableMaxNegativeValues(t *testing.T) {
	q := NewQTable()
	q.Set("s", "a", -5)
	q.Set("s", "b", -1)
	if a, v := q.Max("s", 0); a != "b" || v != -1 {
		t.Errorf("got %q %f, want b -1", a, v)
	}
}

func TestQTableMaxAmong(t *testing.T) {
	q := NewQTable()
	q.Set("s", "a", 1)
	q.Set("s", "b", 3)
	// b is not available this step
	if a, v := q.MaxAmong("s", []string{"a", "c"}, 0); a != "a" || v != 1 {
		t.Errorf("got %q %f, want a 1", a, v)
	}
	if a, _ := q.MaxAmong("s", nil, 0); a != "" {
		t.Errorf("empty action list returned %q", a)
	}
}

func TestQTableRecord(t *testing.T) {
	q := NewQTable()
	q.Set("s", "a", 1.5)
	path := filepath.Join(t.TempDir(), "qtable")
	if err := q.Record(path); err != nil {
		t.Fatalf("Record: %v", err)
	}
	bs, err := os.ReadFile(path + ".json")
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}
	var vals map[string]map[string]float64
	if err := json.Unmarshal(bs, &vals); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if vals["s"]["a"] != 1.5 {
		t.Errorf("dump holds %v", vals)
	}
}
