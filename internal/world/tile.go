// Package world provides level generation, gate placement and fog-of-war.
package world

import "github.com/gdamore/tcell/v2"

const (
	// GlyphWall is drawn for blocked tiles.
	GlyphWall = '#'
	// GlyphFloor is drawn for passable tiles.
	GlyphFloor = '.'
)

// Surface is a draw target indexed by cell coordinate.
type Surface interface {
	Draw(x, y int, glyph rune, fg, bg tcell.Color)
}

// Position is a cell coordinate. X indexes columns and Y indexes rows.
type Position struct {
	X, Y int
}

// Appearance is how a tile is drawn.
type Appearance struct {
	Glyph rune
	Fg    tcell.Color
	Bg    tcell.Color
}

// TileStyle holds the appearance of each tile kind.
type TileStyle struct {
	Floor Appearance
	Wall  Appearance
}

// DefaultTileStyle returns a plain grey floor and wall style.
func DefaultTileStyle() TileStyle {
	return TileStyle{
		Floor: Appearance{Glyph: GlyphFloor, Fg: tcell.ColorGray, Bg: tcell.ColorDefault},
		Wall:  Appearance{Glyph: GlyphWall, Fg: tcell.ColorDarkGray, Bg: tcell.ColorDefault},
	}
}

// Tile is a single map cell. Tiles are not modified once the map is built.
type Tile struct {
	X, Y     int
	Passable bool
	Appearance
}

func newTile(x, y int, passable bool, style TileStyle) *Tile {
	look := style.Wall
	if passable {
		look = style.Floor
	}
	return &Tile{X: x, Y: y, Passable: passable, Appearance: look}
}

// IsPassable returns true if the tile can be walked on.
func (t *Tile) IsPassable() bool {
	return t.Passable
}

// Position returns the tile's coordinate.
func (t *Tile) Position() Position {
	return Position{X: t.X, Y: t.Y}
}

// Draw renders the tile onto s.
func (t *Tile) Draw(s Surface) {
	s.Draw(t.X, t.Y, t.Glyph, t.Fg, t.Bg)
}
