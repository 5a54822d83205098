package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceRejectsOutOfBounds(t *testing.T) {
	var b Board
	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {15, 0}, {0, 15}, {99, 99}} {
		err := b.Place(rc[0], rc[1], Black)
		require.ErrorIs(t, err, ErrOutOfBounds, "place %v", rc)
	}
	assert.Equal(t, 0, b.Count())
}

func TestPlaceRejectsOccupiedCell(t *testing.T) {
	var b Board
	require.NoError(t, b.Place(7, 7, Black))
	require.ErrorIs(t, b.Place(7, 7, White), ErrCellOccupied)
	assert.Equal(t, Black, b.At(7, 7))
	assert.Equal(t, 1, b.Count())
}

func TestDetectWinEachAxis(t *testing.T) {
	tests := []struct {
		name   string
		stones []Coord
		last   Coord
		want   []Coord
	}{
		{
			name:   "horizontal",
			stones: []Coord{{7, 7}, {7, 8}, {7, 9}, {7, 10}},
			last:   Coord{7, 11},
			want:   []Coord{{7, 11}, {7, 10}, {7, 9}, {7, 8}, {7, 7}},
		},
		{
			name:   "vertical",
			stones: []Coord{{0, 3}, {1, 3}, {3, 3}, {4, 3}},
			last:   Coord{2, 3},
			want:   []Coord{{2, 3}, {3, 3}, {4, 3}, {1, 3}, {0, 3}},
		},
		{
			name:   "diagonal down-right",
			stones: []Coord{{10, 10}, {11, 11}, {12, 12}, {13, 13}},
			last:   Coord{14, 14},
			want:   []Coord{{14, 14}, {13, 13}, {12, 12}, {11, 11}, {10, 10}},
		},
		{
			name:   "diagonal down-left",
			stones: []Coord{{0, 14}, {1, 13}, {2, 12}, {4, 10}},
			last:   Coord{3, 11},
			want:   []Coord{{3, 11}, {4, 10}, {2, 12}, {1, 13}, {0, 14}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Board
			for _, s := range tt.stones {
				require.NoError(t, b.Place(s.R, s.C, White))
			}
			require.NoError(t, b.Place(tt.last.R, tt.last.C, White))
			assert.Equal(t, tt.want, b.DetectWin(tt.last.R, tt.last.C, White))
		})
	}
}

func TestDetectWinIgnoresFour(t *testing.T) {
	var b Board
	for c := 5; c < 9; c++ {
		require.NoError(t, b.Place(7, c, Black))
	}
	assert.Nil(t, b.DetectWin(7, 8, Black), "open four")

	require.NoError(t, b.Place(7, 4, White))
	require.NoError(t, b.Place(7, 9, White))
	assert.Nil(t, b.DetectWin(7, 5, Black), "blocked four")
}

func TestDetectWinIgnoresOtherColour(t *testing.T) {
	var b Board
	for c := 0; c < 4; c++ {
		require.NoError(t, b.Place(0, c, Black))
	}
	require.NoError(t, b.Place(0, 4, White))
	assert.Nil(t, b.DetectWin(0, 4, White))
}

func TestDetectWinReportsFirstAxisOnly(t *testing.T) {
	var b Board
	// Cross centred on (7,7): completes a row and a column at once.
	for i := 5; i <= 9; i++ {
		if i == 7 {
			continue
		}
		require.NoError(t, b.Place(7, i, Black))
		require.NoError(t, b.Place(i, 7, Black))
	}
	require.NoError(t, b.Place(7, 7, Black))
	line := b.DetectWin(7, 7, Black)
	require.Len(t, line, 5)
	for _, c := range line {
		assert.Equal(t, 7, c.R, "expected horizontal line, got %v", line)
	}
}

func TestDetectWinOverline(t *testing.T) {
	var b Board
	for c := 0; c < 6; c++ {
		if c == 3 {
			continue
		}
		require.NoError(t, b.Place(4, c, White))
	}
	require.NoError(t, b.Place(4, 3, White))
	assert.Len(t, b.DetectWin(4, 3, White), 6)
}

func TestCoordJSON(t *testing.T) {
	raw, err := json.Marshal([]Coord{{7, 7}, {7, 8}})
	require.NoError(t, err)
	assert.JSONEq(t, `[[7,7],[7,8]]`, string(raw))

	var c Coord
	require.NoError(t, json.Unmarshal([]byte(`[3,4]`), &c))
	assert.Equal(t, Coord{R: 3, C: 4}, c)
}

func TestCellsSnapshotIsCopy(t *testing.T) {
	var b Board
	require.NoError(t, b.Place(1, 2, White))
	cells := b.Cells()
	require.Len(t, cells, BoardSize)
	assert.Equal(t, int(White), cells[1][2])
	cells[1][2] = 0
	assert.Equal(t, White, b.At(1, 2))
}
