// Package entity provides game entities like the player's party.
package entity

// Party represents the player's band of adventurers, drawn as a single symbol.
type Party struct {
	X, Y   int  // Current position on the level
	Symbol rune // Display symbol
}

// NewParty creates a new party at the given position.
func NewParty(x, y int) *Party {
	return &Party{
		X:      x,
		Y:      y,
		Symbol: '@',
	}
}

// Move updates the party position by the given delta.
func (p *Party) Move(dx, dy int) {
	p.X += dx
	p.Y += dy
}

// MoveTo places the party at an absolute position, e.g. on arrival at a new level.
func (p *Party) MoveTo(x, y int) {
	p.X = x
	p.Y = y
}

// Position returns the current x, y coordinates.
func (p *Party) Position() (int, int) {
	return p.X, p.Y
}

// Target returns the coordinates one step away by the given delta.
func (p *Party) Target(dx, dy int) (int, int) {
	return p.X + dx, p.Y + dy
}
