package domain

import (
	"fmt"
	"strings"
)

// Cell is the tag stored in every grid position.
type Cell int

const (
	Open Cell = iota
	Wall
	Start
	Finish
)

// Valid reports whether c is one of the four tags.
func (c Cell) Valid() bool { return c >= Open && c <= Finish }

func (c Cell) String() string {
	switch c {
	case Open:
		return "open"
	case Wall:
		return "wall"
	case Start:
		return "start"
	case Finish:
		return "finish"
	}
	return fmt.Sprintf("cell(%d)", int(c))
}

// Tier labels level difficulty, 1 (easiest) to 4 (hardest).
type Tier int

const (
	Tier1 Tier = iota + 1
	Tier2
	Tier3
	Tier4
)

const (
	MinTier = Tier1
	MaxTier = Tier4
)

// Valid reports whether t is one of the four ranked tiers.
func (t Tier) Valid() bool { return t >= MinTier && t <= MaxTier }

func (t Tier) String() string { return fmt.Sprintf("Level %d", int(t)) }

// Direction is one of the eight single-step moves.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

var directionDeltas = [...]Coord{
	North:     {X: 0, Y: -1},
	NorthEast: {X: 1, Y: -1},
	East:      {X: 1, Y: 0},
	SouthEast: {X: 1, Y: 1},
	South:     {X: 0, Y: 1},
	SouthWest: {X: -1, Y: 1},
	West:      {X: -1, Y: 0},
	NorthWest: {X: -1, Y: -1},
}

var directionNames = [...]string{"n", "ne", "e", "se", "s", "sw", "w", "nw"}

// Valid reports whether d names one of the eight moves.
func (d Direction) Valid() bool { return d >= North && d <= NorthWest }

// Delta returns the coordinate offset of one step in direction d.
func (d Direction) Delta() Coord {
	if !d.Valid() {
		return Coord{}
	}
	return directionDeltas[d]
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// MarshalText encodes d by its compass name so JSON carries "ne", not 1.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("domain: invalid direction %d", int(d))
	}
	return []byte(directionNames[d]), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	v, ok := ParseDirection(string(b))
	if !ok {
		return fmt.Errorf("domain: unknown direction %q", b)
	}
	*d = v
	return nil
}

// ParseDirection accepts the short compass names ("n", "se", ...) in any case.
func ParseDirection(s string) (Direction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d, name := range directionNames {
		if name == s {
			return Direction(d), true
		}
	}
	return 0, false
}

// DirectionBetween returns the direction of a single step from a to b.
// ok is false when b is not one of a's eight neighbours.
func DirectionBetween(a, b Coord) (Direction, bool) {
	delta := Coord{X: b.X - a.X, Y: b.Y - a.Y}
	for d, dd := range directionDeltas {
		if dd == delta {
			return Direction(d), true
		}
	}
	return 0, false
}
