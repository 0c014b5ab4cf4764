package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/demongate/internal/entity"
	"github.com/samdwyer/demongate/internal/gamedata"
	"github.com/samdwyer/demongate/internal/world"
)

// Canvas is the cell buffer a Renderer draws into. *Screen implements it.
type Canvas interface {
	Clear()
	Show()
	SetContent(x, y int, r rune, style tcell.Style)
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen  Canvas
	palette *gamedata.Palette
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen Canvas, palette *gamedata.Palette) *Renderer {
	return &Renderer{screen: screen, palette: palette}
}

// Draw implements world.Surface.
func (r *Renderer) Draw(x, y int, glyph rune, fg, bg tcell.Color) {
	r.screen.SetContent(x, y, glyph, tcell.StyleDefault.Foreground(fg).Background(bg))
}

// Render draws one frame: seen terrain, seen gates, the fire band, the party
// and the status line.
func (r *Renderer) Render(level *world.Map, party *entity.Party, burning int, status string) {
	r.screen.Clear()

	level.DrawTiles(r)
	r.drawGate(level, level.StartGate(), r.palette.Tiles.StartGate)
	r.drawGate(level, level.EndGate(), r.palette.Tiles.EndGate)
	level.DrawDemonFire(r, burning)

	// Draw party on top
	partyStyle := r.palette.Tiles.Party.Style().Bold(true)
	r.screen.SetContent(party.X, party.Y, party.Symbol, partyStyle)

	r.RenderMessage(status, 0)
	r.screen.Show()
}

// drawGate draws a gate marker once its tile has been seen.
func (r *Renderer) drawGate(level *world.Map, gate *world.Tile, def gamedata.GlyphDef) {
	if gate == nil || !level.IsSeenTile(gate.X, gate.Y) || !level.MatchesGate(gate.X, gate.Y) {
		return
	}
	r.screen.SetContent(gate.X, gate.Y, def.GlyphRune(), def.Style())
}

// RenderMessage displays a message on the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := r.palette.Status.Style()
	x := 0
	for _, ch := range msg {
		r.screen.SetContent(x, y, ch, style)
		x++
	}
}
