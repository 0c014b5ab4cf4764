package gamedata

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// FirePalette holds the five demon fire colours, demonFire1 darkest and
// demonFire5 lightest.
type FirePalette struct {
	DemonFire1 string `json:"demonFire1"`
	DemonFire2 string `json:"demonFire2"`
	DemonFire3 string `json:"demonFire3"`
	DemonFire4 string `json:"demonFire4"`
	DemonFire5 string `json:"demonFire5"`
}

// Gradient returns the fire colours as hex strings, lightest first.
func (f FirePalette) Gradient() []string {
	return []string{f.DemonFire5, f.DemonFire4, f.DemonFire3, f.DemonFire2, f.DemonFire1}
}

// GlyphDef describes how one kind of cell is drawn.
type GlyphDef struct {
	Glyph string `json:"glyph"` // Single character for rendering (e.g., "#")
	Fg    string `json:"fg"`    // Hex foreground colour
	Bg    string `json:"bg"`    // Hex background colour, empty for terminal default
}

// GlyphRune returns the glyph as a rune for rendering.
func (g GlyphDef) GlyphRune() rune {
	if len(g.Glyph) == 0 {
		return '?'
	}
	return []rune(g.Glyph)[0]
}

// FgColor returns the foreground as a tcell.Color.
func (g GlyphDef) FgColor() tcell.Color {
	return colorOrDefault(g.Fg)
}

// BgColor returns the background as a tcell.Color.
func (g GlyphDef) BgColor() tcell.Color {
	return colorOrDefault(g.Bg)
}

// Style returns the tcell style for this glyph.
func (g GlyphDef) Style() tcell.Style {
	return tcell.StyleDefault.Foreground(g.FgColor()).Background(g.BgColor())
}

func (g GlyphDef) validate(name string) error {
	for _, hex := range []string{g.Fg, g.Bg} {
		if hex == "" {
			continue
		}
		if _, err := ParseHexColor(hex); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// TilePalette holds glyph definitions for map cells and markers.
type TilePalette struct {
	Floor     GlyphDef `json:"floor"`
	Wall      GlyphDef `json:"wall"`
	StartGate GlyphDef `json:"startGate"`
	EndGate   GlyphDef `json:"endGate"`
	Party     GlyphDef `json:"party"`
}

// Palette represents the structure of palette.json.
type Palette struct {
	Fire   FirePalette `json:"fire"`
	Tiles  TilePalette `json:"tiles"`
	Status GlyphDef    `json:"status"`
}

// FireGradient returns the fire colours as tcell colours, lightest first.
func (p *Palette) FireGradient() []tcell.Color {
	hexes := p.Fire.Gradient()
	colors := make([]tcell.Color, len(hexes))
	for i, hex := range hexes {
		colors[i] = colorOrDefault(hex)
	}
	return colors
}

// Validate checks that every colour in the palette parses.
func (p *Palette) Validate() error {
	for i, hex := range p.Fire.Gradient() {
		if _, err := ParseHexColor(hex); err != nil {
			return fmt.Errorf("demonFire%d: %w", 5-i, err)
		}
	}

	glyphs := []struct {
		name string
		def  GlyphDef
	}{
		{"floor", p.Tiles.Floor},
		{"wall", p.Tiles.Wall},
		{"startGate", p.Tiles.StartGate},
		{"endGate", p.Tiles.EndGate},
		{"party", p.Tiles.Party},
		{"status", p.Status},
	}
	for _, g := range glyphs {
		if err := g.def.validate(g.name); err != nil {
			return err
		}
	}
	return nil
}

// LoadPalette loads and validates the embedded palette.json file.
func LoadPalette() (*Palette, error) {
	p, err := Load[Palette]("palette.json")
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid palette.json: %w", err)
	}
	return &p, nil
}

// MustLoadPalette loads the palette, panicking on error.
func MustLoadPalette() *Palette {
	p, err := LoadPalette()
	if err != nil {
		panic(err)
	}
	return p
}

func colorOrDefault(hex string) tcell.Color {
	if hex == "" {
		return tcell.ColorDefault
	}
	color, err := ParseHexColor(hex)
	if err != nil {
		return tcell.ColorDefault
	}
	return color
}
