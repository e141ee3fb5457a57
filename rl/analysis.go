package rl

import (
	"os"
	"path"
	"strconv"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// CoverageAnalyzer counts the cumulative number of unique state hashes seen
// after each episode.
func CoverageAnalyzer() Analyzer {
	return func(name string, traces []*Trace) DataSet {
		uniqueStates := make(map[string]bool)
		numUniqueStates := make([]float64, 0, len(traces))
		for _, trace := range traces {
			for j := 0; j < trace.Len(); j++ {
				s, _, _, _, _ := trace.Get(j)
				uniqueStates[s.Hash()] = true
			}
			numUniqueStates = append(numUniqueStates, float64(len(uniqueStates)))
		}
		return numUniqueStates
	}
}

// CoveragePlotter saves a line plot of state coverage per experiment.
func CoveragePlotter(plotPath string) Comparator {
	if _, err := os.Stat(plotPath); err != nil {
		os.MkdirAll(plotPath, os.ModePerm)
	}
	return linePlotter(plotPath, "coverage", "Episode", "States covered")
}

// RewardAnalyzer collects the total shaped reward of each episode.
func RewardAnalyzer() Analyzer {
	return func(name string, traces []*Trace) DataSet {
		rewards := make([]float64, len(traces))
		for i, trace := range traces {
			rewards[i] = trace.TotalReward()
		}
		return rewards
	}
}

// RewardPlotter saves a line plot of episode reward per experiment.
func RewardPlotter(plotPath string) Comparator {
	if _, err := os.Stat(plotPath); err != nil {
		os.MkdirAll(plotPath, os.ModePerm)
	}
	return linePlotter(plotPath, "reward", "Episode", "Episode reward")
}

func linePlotter(plotPath, suffix, xLabel, yLabel string) Comparator {
	return func(run int, names []string, ds []DataSet) {
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = xLabel
		p.Y.Label.Text = yLabel
		for i := 0; i < len(names); i++ {
			series, ok := ds[i].([]float64)
			if !ok || len(series) == 0 {
				continue
			}
			points := make(plotter.XYs, len(series))
			for j, v := range series {
				points[j] = plotter.XY{X: float64(j), Y: v}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
			log.Info().Str("experiment", names[i]).Str("plot", suffix).
				Float64("final", series[len(series)-1]).Msg("comparison point")
		}
		out := path.Join(plotPath, strconv.Itoa(run)+"_"+suffix+".png")
		if err := p.Save(8*vg.Inch, 8*vg.Inch, out); err != nil {
			log.Warn().Err(err).Str("path", out).Msg("saving plot")
		}
	}
}
