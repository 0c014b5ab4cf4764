package world

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPassableTile is returned when a gate search exhausts the grid.
	ErrNoPassableTile = errors.New("no passable tile found")
	// ErrRowOutOfRange is returned when a gate search reads outside the grid.
	ErrRowOutOfRange = errors.New("row out of range")
)

// GateSearchError describes a failed gate search.
type GateSearchError struct {
	StartRow   int
	Row        int
	Column     int // -1 unless a specific column was missing a tile
	Increasing bool
	Err        error
}

func (e *GateSearchError) Error() string {
	direction := "decreasing"
	if e.Increasing {
		direction = "increasing"
	}
	if e.Column >= 0 {
		return fmt.Sprintf("gate search from row %d (%s): column %d at row %d: %v",
			e.StartRow, direction, e.Column, e.Row, e.Err)
	}
	return fmt.Sprintf("gate search from row %d (%s): stopped at row %d: %v",
		e.StartRow, direction, e.Row, e.Err)
}

func (e *GateSearchError) Unwrap() error {
	return e.Err
}

// randomTile picks a passable tile uniformly at random from the first row,
// scanning from startRow towards higher or lower row numbers, that has one.
// The scan never leaves the generated rows.
func (m *Map) randomTile(startRow int, increasing bool) (*Tile, error) {
	step := -1
	if increasing {
		step = 1
	}
	first, last := m.topOffset, m.BottomRow()

	fail := func(row, column int, err error) error {
		return &GateSearchError{
			StartRow:   startRow,
			Row:        row,
			Column:     column,
			Increasing: increasing,
			Err:        err,
		}
	}

	if startRow < first || startRow > last {
		return nil, fail(startRow, -1, ErrRowOutOfRange)
	}

	var candidates []*Tile
	for row := startRow; row >= first && row <= last; row += step {
		candidates = candidates[:0]
		for x, column := range m.tiles {
			if row >= len(column) || column[row] == nil {
				return nil, fail(row, x, ErrRowOutOfRange)
			}
			if column[row].IsPassable() {
				candidates = append(candidates, column[row])
			}
		}
		if len(candidates) > 0 {
			return candidates[m.rng.Intn(len(candidates))], nil
		}
	}

	endRow := first - 1
	if increasing {
		endRow = last + 1
	}
	return nil, fail(endRow, -1, ErrNoPassableTile)
}
