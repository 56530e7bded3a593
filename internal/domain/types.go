package domain

import "time"

// Coord identifies a cell on the grid. X is the column, Y the row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns c shifted by d.
func (c Coord) Add(d Coord) Coord { return Coord{X: c.X + d.X, Y: c.Y + d.Y} }

// Grid is a width × height array of cell tags, indexed Cells[y][x].
type Grid struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Cells  [][]Cell `json:"cells"`
}

// NewGrid allocates a grid with every cell set to fill.
func NewGrid(width, height int, fill Cell) *Grid {
	cells := make([][]Cell, height)
	for y := range cells {
		row := make([]Cell, width)
		for x := range row {
			row[x] = fill
		}
		cells[y] = row
	}
	return &Grid{Width: width, Height: height, Cells: cells}
}

// InBounds reports whether c lies within the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// At returns the tag at c. Callers check InBounds first.
func (g *Grid) At(c Coord) Cell { return g.Cells[c.Y][c.X] }

// Set stores tag v at c.
func (g *Grid) Set(c Coord, v Cell) { g.Cells[c.Y][c.X] = v }

// Interior reports whether c is inside the one-cell border ring.
func (g *Grid) Interior(c Coord) bool {
	return c.X >= 1 && c.X <= g.Width-2 && c.Y >= 1 && c.Y <= g.Height-2
}

// Find returns the first coordinate (row-major) holding tag v.
func (g *Grid) Find(v Cell) (Coord, bool) {
	for y, row := range g.Cells {
		for x, c := range row {
			if c == v {
				return Coord{X: x, Y: y}, true
			}
		}
	}
	return Coord{}, false
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	out := &Grid{Width: g.Width, Height: g.Height, Cells: make([][]Cell, len(g.Cells))}
	for y := range g.Cells {
		out.Cells[y] = append([]Cell(nil), g.Cells[y]...)
	}
	return out
}

// PathResult is the outcome of one search.
type PathResult struct {
	Found    bool    `json:"found"`
	MinSteps int     `json:"minSteps"`
	Path     []Coord `json:"path,omitempty"`
}

// Level is an accepted maze with its metadata.
type Level struct {
	ID        string `json:"id,omitempty"`
	Seed      int64  `json:"seed,omitempty"`
	Tier      Tier   `json:"tier"`
	Grid      *Grid  `json:"grid"`
	Start     Coord  `json:"start"`
	Finish    Coord  `json:"finish"`
	MinSteps  int    `json:"minSteps"`
	CreatedAt int64  `json:"createdAt,omitempty"`
	// Optional user metadata
	Name string `json:"name,omitempty"`
}

// LevelMeta is a lightweight listing entry.
type LevelMeta struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Tier      Tier   `json:"tier"`
	MinSteps  int    `json:"minSteps"`
	CreatedAt int64  `json:"createdAt"`
}

// Hint suggests the next step toward the finish.
type Hint struct {
	Message   string    `json:"message,omitempty"`
	Next      Coord     `json:"next"`
	Direction Direction `json:"direction"`
	Remaining int       `json:"remaining"`
}

// StatRecord is one line of the play statistics log, written when a level is
// completed or abandoned.
type StatRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Player      string    `json:"player"`
	Iteration   int       `json:"iteration"`
	Tier        Tier      `json:"tier"`
	MinSteps    int       `json:"minSteps"`
	PlayerSteps int       `json:"playerSteps"`
	Completed   bool      `json:"completed"`
}
