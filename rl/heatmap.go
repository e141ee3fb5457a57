package rl

import (
	"encoding/json"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// VisitDataSet accumulates per-cell visit counts from states that expose a
// board position.
type VisitDataSet struct {
	Visits map[int]map[int]int
	Width  int
	Height int
}

var _ plotter.GridXYZ = &VisitDataSet{}

func (v *VisitDataSet) Dims() (int, int) {
	return v.Width, v.Height
}

func (v *VisitDataSet) Z(x, y int) float64 {
	return float64(v.Visits[y][x])
}

func (v *VisitDataSet) X(x int) float64 {
	return float64(x)
}

func (v *VisitDataSet) Y(y int) float64 {
	return float64(y)
}

func (v *VisitDataSet) Min() float64 {
	return 0.0
}

func (v *VisitDataSet) Max() float64 {
	max := 0
	for _, vals := range v.Visits {
		for _, count := range vals {
			if count > max {
				max = count
			}
		}
	}
	return float64(max)
}

// VisitAnalyzer builds a visit heat map over all states of all traces that
// implement Positioned.
func VisitAnalyzer() Analyzer {
	return func(name string, traces []*Trace) DataSet {
		ds := &VisitDataSet{Visits: make(map[int]map[int]int)}
		for _, trace := range traces {
			for i := 0; i < trace.Len(); i++ {
				state, _, _, _, _ := trace.Get(i)
				pos, ok := state.(Positioned)
				if !ok {
					continue
				}
				x, y := pos.Position()
				if _, ok := ds.Visits[y]; !ok {
					ds.Visits[y] = make(map[int]int)
				}
				ds.Visits[y][x]++
				if x+1 > ds.Width {
					ds.Width = x + 1
				}
				if y+1 > ds.Height {
					ds.Height = y + 1
				}
			}
		}
		return ds
	}
}

// VisitHeatMapPlotter saves one heat map per experiment, along with the raw
// counts as JSON.
func VisitHeatMapPlotter(plotPath string) Comparator {
	if _, err := os.Stat(plotPath); err != nil {
		os.MkdirAll(plotPath, os.ModePerm)
	}
	return func(run int, names []string, ds []DataSet) {
		for i := 0; i < len(names); i++ {
			visits, ok := ds[i].(*VisitDataSet)
			if !ok || visits.Width == 0 {
				continue
			}
			base := path.Join(plotPath, strconv.Itoa(run)+"_"+names[i]+"_visits")

			bs, _ := json.Marshal(visits)
			os.WriteFile(base+".json", bs, 0644)

			p := plot.New()
			p.Title.Text = names[i]
			p.Add(plotter.NewHeatMap(visits, palette.Heat(16, 1)))
			if err := p.Save(6*vg.Inch, 6*vg.Inch, base+".png"); err != nil {
				log.Warn().Err(err).Str("path", base+".png").Msg("saving heat map")
			}
		}
	}
}

// layerGrid adapts a flat row-major layer to the plotter grid interface.
type layerGrid struct {
	vals   []int
	width  int
	height int
}

var _ plotter.GridXYZ = &layerGrid{}

func (g *layerGrid) Dims() (int, int)   { return g.width, g.height }
func (g *layerGrid) Z(x, y int) float64 { return float64(g.vals[y*g.width+x]) }
func (g *layerGrid) X(x int) float64    { return float64(x) }
func (g *layerGrid) Y(y int) float64    { return float64(y) }

// LayerHeatMap renders a flat board layer as a PNG heat map. Used by the
// render command and the HTTP service in place of the usual plotting
// frontends.
func LayerHeatMap(vals []int, width, height int, title string) (io.WriterTo, error) {
	p := plot.New()
	p.Title.Text = title
	p.Add(plotter.NewHeatMap(&layerGrid{vals: vals, width: width, height: height}, palette.Heat(16, 1)))
	return p.WriterTo(6*vg.Inch, 6*vg.Inch, "png")
}
