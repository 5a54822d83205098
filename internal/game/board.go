package game

import (
	"encoding/json"
	"errors"
)

const (
	BoardSize = 15
	WinLength = 5
)

var (
	ErrOutOfBounds  = errors.New("out_of_bounds")
	ErrCellOccupied = errors.New("cell_occupied")
)

type Stone int

const (
	Empty Stone = iota
	Black
	White
)

func (s Stone) String() string {
	switch s {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "empty"
	}
}

// Coord is a board position. It encodes as a two-element JSON array.
type Coord struct {
	R int
	C int
}

func (c Coord) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.R, c.C})
}

func (c *Coord) UnmarshalJSON(b []byte) error {
	var pair [2]int
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	c.R, c.C = pair[0], pair[1]
	return nil
}

type Board [BoardSize][BoardSize]Stone

func InBounds(r, c int) bool {
	return r >= 0 && r < BoardSize && c >= 0 && c < BoardSize
}

func (b *Board) At(r, c int) Stone {
	if !InBounds(r, c) {
		return Empty
	}
	return b[r][c]
}

// Place puts s on an empty cell. A cell is written at most once.
func (b *Board) Place(r, c int, s Stone) error {
	if !InBounds(r, c) {
		return ErrOutOfBounds
	}
	if b[r][c] != Empty {
		return ErrCellOccupied
	}
	b[r][c] = s
	return nil
}

// axes are scanned in this order; the first winning axis is reported.
var axes = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal down-right
	{1, -1}, // diagonal down-left
}

// DetectWin reports the line through (r, c) that completes five or more
// stones of colour s, or nil. The line is in scan order, not sorted: the
// placed stone, then the run in the axis direction, then the run against it.
func (b *Board) DetectWin(r, c int, s Stone) []Coord {
	for _, ax := range axes {
		line := []Coord{{R: r, C: c}}
		for _, sign := range [2]int{1, -1} {
			dr, dc := ax[0]*sign, ax[1]*sign
			for i := 1; i < WinLength; i++ {
				nr, nc := r+dr*i, c+dc*i
				if !InBounds(nr, nc) || b[nr][nc] != s {
					break
				}
				line = append(line, Coord{R: nr, C: nc})
			}
		}
		if len(line) >= WinLength {
			return line
		}
	}
	return nil
}

// Cells copies the grid into the nested int slices sent on the wire.
func (b *Board) Cells() [][]int {
	out := make([][]int, BoardSize)
	for r := range b {
		row := make([]int, BoardSize)
		for c, s := range b[r] {
			row[c] = int(s)
		}
		out[r] = row
	}
	return out
}

// Count returns the number of non-empty cells.
func (b *Board) Count() int {
	n := 0
	for r := range b {
		for _, s := range b[r] {
			if s != Empty {
				n++
			}
		}
	}
	return n
}
