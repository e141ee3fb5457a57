package rl

import "testing"

func chainTrace(positions []int, rewards []float64) *Trace {
	t := NewTrace()
	for i := range positions {
		s := &chainState{pos: positions[i]}
		next := &chainState{pos: positions[i] + 1}
		t.Append(s, chainAction("right"), rewards[i], next)
	}
	return t
}

func TestCoverageAnalyzer(t *testing.T) {
	traces := []*Trace{
		chainTrace([]int{0, 1}, []float64{0, 0}), // states a,b plus next b,c
		chainTrace([]int{0, 1}, []float64{0, 0}), // nothing new
		chainTrace([]int{5}, []float64{0}),       // state f
	}
	ds := CoverageAnalyzer()("test", traces)
	series, ok := ds.([]float64)
	if !ok {
		t.Fatalf("unexpected dataset type %T", ds)
	}
	// the analyzer counts visited states, not successor states
	want := []float64{2, 2, 3}
	if len(series) != len(want) {
		t.Fatalf("series length %d, want %d", len(series), len(want))
	}
	for i := range want {
		if series[i] != want[i] {
			t.Errorf("episode %d: coverage %f, want %f", i, series[i], want[i])
		}
	}
}

func TestRewardAnalyzer(t *testing.T) {
	traces := []*Trace{
		chainTrace([]int{0, 1}, []float64{0.5, 1.0}),
		chainTrace([]int{0}, []float64{-0.1}),
	}
	ds := RewardAnalyzer()("test", traces)
	series := ds.([]float64)
	if series[0] != 1.5 || series[1] != -0.1 {
		t.Errorf("got %v, want [1.5 -0.1]", series)
	}
}

func TestVisitAnalyzer(t *testing.T) {
	traces := []*Trace{
		chainTrace([]int{0, 0, 3}, []float64{0, 0, 0}),
	}
	ds := VisitAnalyzer()("test", traces)
	visits, ok := ds.(*VisitDataSet)
	if !ok {
		t.Fatalf("unexpected dataset type %T", ds)
	}
	if visits.Visits[0][0] != 2 {
		t.Errorf("cell (0,0) visited %d times, want 2", visits.Visits[0][0])
	}
	if visits.Visits[0][3] != 1 {
		t.Errorf("cell (3,0) visited %d times, want 1", visits.Visits[0][3])
	}
	if visits.Width != 4 || visits.Height != 1 {
		t.Errorf("dims %dx%d, want 4x1", visits.Width, visits.Height)
	}
	if visits.Max() != 2 {
		t.Errorf("max %f, want 2", visits.Max())
	}
	if cols, rows := visits.Dims(); cols != 4 || rows != 1 {
		t.Errorf("grid dims %dx%d", cols, rows)
	}
}
