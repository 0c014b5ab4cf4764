package world

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// fireBias nudges the bottom row of the band off an exact integer.
const fireBias = 0.02

// DefaultFireGradient returns the built-in demon fire colours, lightest first.
// It mirrors the fire entries of the gamedata palette, which takes precedence
// when a palette is supplied through MapOptions.
func DefaultFireGradient() []tcell.Color {
	return []tcell.Color{
		tcell.NewHexColor(0xffb13b),
		tcell.NewHexColor(0xf25c05),
		tcell.NewHexColor(0xb81d05),
		tcell.NewHexColor(0x7a0a02),
		tcell.NewHexColor(0x3d0303),
	}
}

// DrawDemonFire paints the bottom burningSpaces rows of the level with a
// flickering gradient. Each cell is rounded up or down at random, so two calls
// with the same height rarely look the same.
func (m *Map) DrawDemonFire(s Surface, burningSpaces int) {
	if burningSpaces <= 0 || len(m.fire) == 0 {
		return
	}

	bottom := m.BottomRow()
	for y := 0; y < burningSpaces; y++ {
		row := bottom - y
		if row < 0 {
			break
		}
		level := float64(len(m.fire)*y)/float64(burningSpaces) + fireBias
		for x := 0; x < len(m.tiles); x++ {
			idx := fireIndex(level, m.rng.Float64() > 0.5, len(m.fire))
			s.Draw(x, row, ' ', tcell.ColorDefault, m.fire[idx])
		}
	}
}

// fireIndex rounds level in the requested direction and clamps it to [0, steps).
func fireIndex(level float64, roundUp bool, steps int) int {
	var idx int
	if roundUp {
		idx = int(math.Ceil(level))
	} else {
		idx = int(math.Floor(level))
	}
	return max(0, min(idx, steps-1))
}
