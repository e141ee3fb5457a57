package halite

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// MapSize is the board edge length. Boards are always square.
type MapSize int

const (
	MapTiny   MapSize = 32
	MapSmall  MapSize = 40
	MapMedium MapSize = 48
	MapLarge  MapSize = 56
	MapGiant  MapSize = 64
)

func (s MapSize) Valid() bool {
	switch s {
	case MapTiny, MapSmall, MapMedium, MapLarge, MapGiant:
		return true
	}
	return false
}

// MapType selects the halite distribution of a freshly generated board.
type MapType int

const (
	MapFractal MapType = iota
	MapBasic
)

func (t MapType) String() string {
	switch t {
	case MapFractal:
		return "fractal"
	case MapBasic:
		return "basic"
	}
	return "unknown"
}

func ParseMapType(s string) (MapType, error) {
	switch s {
	case "fractal":
		return MapFractal, nil
	case "basic":
		return MapBasic, nil
	}
	return 0, fmt.Errorf("unknown map type: %q", s)
}

// tileLayout computes the tiling of the board for the given player count.
// Columns double before rows so two players share a horizontal mirror line.
func tileLayout(players, maxPlayers int) (cols, rows int, err error) {
	if players < 1 || players > maxPlayers {
		return 0, 0, fmt.Errorf("player count %d outside [1,%d]", players, maxPlayers)
	}
	if players&(players-1) != 0 {
		return 0, 0, fmt.Errorf("player count %d is not a power of two", players)
	}
	cols, rows = 1, 1
	tiles := 1
	for tiles < players {
		cols *= 2
		tiles *= 2
		if tiles == players {
			break
		}
		rows *= 2
		tiles *= 2
	}
	return cols, rows, nil
}

// placeFactory picks the factory cell within a single tile. Mid-sized tiles
// get the offset placement of the official maps, anything else the center.
func placeFactory(tw, th, players int) Point {
	f := Point{X: tw / 2, Y: th / 2}
	if tw >= 16 && tw <= 40 && th >= 16 && th <= 40 {
		f.X = 8 + (tw-16)*20/24
		if players > 2 {
			f.Y = 8 + (th-16)*20/24
		}
	}
	return f
}

// smoothNoise subsamples the source at the given wavelength and blends the
// samples bilinearly back up to the source resolution.
func smoothNoise(source [][]float64, wavelength int) [][]float64 {
	h := len(source)
	w := len(source[0])
	miniH := (h + wavelength - 1) / wavelength
	miniW := (w + wavelength - 1) / wavelength

	mini := make([][]float64, miniH)
	for y := range mini {
		mini[y] = make([]float64, miniW)
		for x := range mini[y] {
			mini[y][x] = source[wavelength*y][wavelength*x]
		}
	}

	smoothed := make([][]float64, h)
	for y := 0; y < h; y++ {
		smoothed[y] = make([]float64, w)
		yI := y / wavelength
		yF := (y/wavelength + 1) % miniH
		vBlend := float64(y)/float64(wavelength) - float64(yI)
		for x := 0; x < w; x++ {
			xI := x / wavelength
			xF := (x/wavelength + 1) % miniW
			hBlend := float64(x)/float64(wavelength) - float64(xI)
			top := (1-hBlend)*mini[yI][xI] + hBlend*mini[yI][xF]
			bottom := (1-hBlend)*mini[yF][xI] + hBlend*mini[yF][xF]
			smoothed[y][x] = (1-vBlend)*top + vBlend*bottom
		}
	}
	return smoothed
}

// fractalTile produces the halite distribution of a single tile: squared
// uniform noise accumulated over smoothing octaves and normalized so the
// richest cell holds a production drawn between the configured bounds.
func fractalTile(th, tw int, c Constants, rng *rand.Rand) [][]int {
	source := make([][]float64, th)
	for y := range source {
		source[y] = make([]float64, tw)
		for x := range source[y] {
			u := rng.Float64()
			source[y][x] = u * u
		}
	}

	region := make([][]float64, th)
	for y := range region {
		region[y] = make([]float64, tw)
	}

	maxOctave := int(math.Floor(math.Log2(float64(minInt(th, tw))))) + 1
	amplitude := 1.0
	for octave := 2; octave <= maxOctave; octave++ {
		wavelength := int(math.Round(math.Pow(2, float64(maxOctave-octave))))
		if wavelength < 1 {
			wavelength = 1
		}
		smoothed := smoothNoise(source, wavelength)
		for y := 0; y < th; y++ {
			for x := 0; x < tw; x++ {
				region[y][x] += amplitude * smoothed[y][x]
			}
		}
		amplitude *= c.Persistence
	}

	regionMax := 0.0
	for y := 0; y < th; y++ {
		for x := 0; x < tw; x++ {
			region[y][x] *= region[y][x]
			if region[y][x] > regionMax {
				regionMax = region[y][x]
			}
		}
	}

	maxProduction := c.MinCellProduction
	if c.MaxCellProduction > c.MinCellProduction {
		maxProduction += rng.Intn(c.MaxCellProduction - c.MinCellProduction + 1)
	}

	tile := make([][]int, th)
	for y := range tile {
		tile[y] = make([]int, tw)
		for x := range tile[y] {
			if regionMax > 0 {
				tile[y][x] = int(math.Round(region[y][x] * float64(maxProduction) / regionMax))
			}
		}
	}
	return tile
}

// assemble mirrors the tile across the board so every player starts on a
// symmetric map, places one factory per tile and assigns owners column by
// column.
func assemble(tile [][]int, factory Point, cols, rows, players int) (*Board, []Point) {
	th := len(tile)
	tw := len(tile[0])
	b := NewBoard(tw*cols, th*rows)
	factories := make([]Point, 0, players)

	mirror := func(v, extent, tileIdx int) int {
		if tileIdx%2 == 1 {
			return extent - 1 - v
		}
		return v
	}

	player := int8(1)
	for i := 0; i < cols; i++ {
		for j := 0; j < rows; j++ {
			for y := 0; y < th; y++ {
				for x := 0; x < tw; x++ {
					sx := mirror(x, tw, i)
					sy := mirror(y, th, j)
					b.Halite[(j*th+y)*b.Width+(i*tw+x)] = tile[sy][sx]
				}
			}
			f := Point{
				X: i*tw + mirror(factory.X, tw, i),
				Y: j*th + mirror(factory.Y, th, j),
			}
			idx := b.Index(f)
			b.Halite[idx] = 0
			b.Structures[idx] = StructureFactory
			b.Owners[idx] = player
			factories = append(factories, f)
			player++
		}
	}
	return b, factories
}

// GenerateFractal builds a fractal-noise board for the given size and player
// count. Deterministic for a fixed rng state.
func GenerateFractal(size MapSize, players int, c Constants, rng *rand.Rand) (*Board, []Point, error) {
	if !size.Valid() {
		return nil, nil, fmt.Errorf("invalid map size %d", size)
	}
	cols, rows, err := tileLayout(players, c.MaxPlayers)
	if err != nil {
		return nil, nil, err
	}
	s := int(size)
	tw, th := s/cols, s/rows
	if tw*cols != s || th*rows != s {
		return nil, nil, fmt.Errorf("map size %d not divisible into %dx%d tiles", s, cols, rows)
	}
	tile := fractalTile(th, tw, c, rng)
	factory := placeFactory(tw, th, players)
	tile[factory.Y][factory.X] = 0
	b, factories := assemble(tile, factory, cols, rows, players)
	return b, factories, nil
}

// GenerateBasic builds a flat board with 10 halite on every cell. Useful for
// debugging and for deterministic miniature benchmarks.
func GenerateBasic(size MapSize, players int, c Constants) (*Board, []Point, error) {
	cols, rows, err := tileLayout(players, c.MaxPlayers)
	if err != nil {
		return nil, nil, err
	}
	s := int(size)
	tw, th := s/cols, s/rows
	if tw < 1 || th < 1 || tw*cols != s || th*rows != s {
		return nil, nil, fmt.Errorf("map size %d not divisible into %dx%d tiles", s, cols, rows)
	}
	tile := make([][]int, th)
	for y := range tile {
		tile[y] = make([]int, tw)
		for x := range tile[y] {
			tile[y][x] = 10
		}
	}
	factory := placeFactory(tw, th, players)
	tile[factory.Y][factory.X] = 0
	b, factories := assemble(tile, factory, cols, rows, players)
	return b, factories, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
