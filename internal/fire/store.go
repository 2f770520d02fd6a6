package fire

import (
	"errors"
	"fmt"
)

// ErrCellExists is returned when a coordinate is materialized twice.
var ErrCellExists = errors.New("fire: cell already exists")

// Store is the sparse coordinate to cell mapping. Any number of goroutines may
// read it concurrently provided no Insert runs at the same time; inserts are
// made by the authoritative goroutine between dispatches.
type Store struct {
	cells map[Coord]*Cell
}

// NewStore returns an empty store with room for capacity cells.
func NewStore(capacity int) *Store {
	if capacity < 0 {
		capacity = 0
	}
	return &Store{cells: make(map[Coord]*Cell, capacity)}
}

// Get returns the cell at c, if any.
func (s *Store) Get(c Coord) (*Cell, bool) {
	cell, ok := s.cells[c]
	return cell, ok
}

// Contains reports whether c has been materialized.
func (s *Store) Contains(c Coord) bool {
	_, ok := s.cells[c]
	return ok
}

// Insert adds cell at c. An existing cell is never overwritten.
func (s *Store) Insert(c Coord, cell *Cell) error {
	if cell == nil {
		return fmt.Errorf("fire: insert %v: nil cell", c)
	}
	if _, ok := s.cells[c]; ok {
		return fmt.Errorf("insert %v: %w", c, ErrCellExists)
	}
	s.cells[c] = cell
	return nil
}

// Len returns the number of materialized cells.
func (s *Store) Len() int { return len(s.cells) }

// Range calls fn for every cell until fn returns false. Iteration order is
// unspecified.
func (s *Store) Range(fn func(Coord, *Cell) bool) {
	for c, cell := range s.cells {
		if !fn(c, cell) {
			return
		}
	}
}
