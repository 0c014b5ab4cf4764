package world

// Visibility records which coordinates have been observed.
//
// Entries are never removed or replaced. A nil tile marks a coordinate that was
// observed but has no tile behind it.
type Visibility struct {
	seen map[Position]*Tile
}

// NewVisibility returns an empty record.
func NewVisibility() *Visibility {
	return &Visibility{seen: make(map[Position]*Tile)}
}

// See records tile at pos unless pos was already recorded.
// Reports whether a new entry was stored.
func (v *Visibility) See(pos Position, tile *Tile) bool {
	if _, ok := v.seen[pos]; ok {
		return false
	}
	v.seen[pos] = tile
	return true
}

// IsSeen returns true if pos was recorded with a tile behind it.
func (v *Visibility) IsSeen(pos Position) bool {
	return v.seen[pos] != nil
}

// Recorded returns true if pos has any entry, including an absent marker.
func (v *Visibility) Recorded(pos Position) bool {
	_, ok := v.seen[pos]
	return ok
}

// Len returns the number of recorded coordinates.
func (v *Visibility) Len() int {
	return len(v.seen)
}
