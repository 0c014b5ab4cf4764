package world

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/demongate/internal/cellular"
	"github.com/samdwyer/demongate/internal/telemetry"
)

const (
	// Default level dimensions
	DefaultWidth  = 80
	DefaultHeight = 22

	// DefaultTopOffset leaves row 0 free for the status line.
	DefaultTopOffset = 1

	// Automaton parameters
	fillProbability   = 0.55
	smoothingPasses   = 5
	connectivityValue = 1
)

// Automaton is the cellular automaton a map is generated from.
type Automaton interface {
	Randomize(probability float64)
	Create(cb cellular.Callback)
	Connect(cb cellular.Callback, value int)
}

// AutomatonFactory builds an automaton for a width x height grid.
type AutomatonFactory func(width, height int, rng *rand.Rand) Automaton

// NewCellularAutomaton is the default AutomatonFactory.
func NewCellularAutomaton(width, height int, rng *rand.Rand) Automaton {
	return cellular.New(width, height, rng)
}

// MapOptions configures map construction.
type MapOptions struct {
	// TopOffset shifts every generated row down before storage.
	TopOffset int
	// Rand drives generation, gate choice and fire flicker.
	Rand *rand.Rand
	// Automaton builds the cell classifier. Defaults to NewCellularAutomaton.
	Automaton AutomatonFactory
	// Style is the tile appearance. A zero value selects DefaultTileStyle.
	Style TileStyle
	// FireGradient lists fire colours lightest first.
	FireGradient []tcell.Color
}

// DefaultMapOptions returns options with the default offset and a time-seeded RNG.
func DefaultMapOptions() MapOptions {
	return MapOptions{
		TopOffset:    DefaultTopOffset,
		Rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
		Automaton:    NewCellularAutomaton,
		Style:        DefaultTileStyle(),
		FireGradient: DefaultFireGradient(),
	}
}

func (o MapOptions) withDefaults() MapOptions {
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Automaton == nil {
		o.Automaton = NewCellularAutomaton
	}
	if o.Style == (TileStyle{}) {
		o.Style = DefaultTileStyle()
	}
	if len(o.FireGradient) == 0 {
		o.FireGradient = DefaultFireGradient()
	}
	return o
}

// Map is a generated level: the tile grid, its two gates and the seen record.
type Map struct {
	ID string

	width     int
	height    int
	topOffset int
	tiles     [][]*Tile // indexed [x][y], y already shifted by topOffset
	seen      *Visibility
	startGate Position
	endGate   Position
	fire      []tcell.Color
	style     TileStyle
	rng       *rand.Rand
}

// NewMap generates a width x height level and places its gates.
// The start gate is searched for from the bottom row upwards and the end gate
// from the top row downwards. No map is returned if either search fails.
func NewMap(ctx context.Context, width, height int, opts MapOptions) (*Map, error) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "map.generate")
	defer span.End()

	startTime := time.Now()
	opts = opts.withDefaults()

	m := &Map{
		ID:        uuid.NewString(),
		width:     width,
		height:    height,
		topOffset: opts.TopOffset,
		seen:      NewVisibility(),
		fire:      opts.FireGradient,
		style:     opts.Style,
		rng:       opts.Rand,
	}

	automaton := opts.Automaton(width, height, opts.Rand)
	automaton.Randomize(fillProbability)
	for i := 0; i < smoothingPasses; i++ {
		automaton.Create(m.storeTile)
	}
	automaton.Connect(m.storeTile, connectivityValue)

	span.SetAttributes(
		attribute.String("map.id", m.ID),
		attribute.Int("map.width", width),
		attribute.Int("map.height", height),
		attribute.Int("map.top_offset", m.topOffset),
	)

	start, err := m.randomTile(m.BottomRow(), false)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "start gate")
		return nil, fmt.Errorf("placing start gate: %w", err)
	}
	m.startGate = start.Position()

	end, err := m.randomTile(m.topOffset, true)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "end gate")
		return nil, fmt.Errorf("placing end gate: %w", err)
	}
	m.endGate = end.Position()

	span.SetAttributes(
		attribute.Int("map.start_gate_x", m.startGate.X),
		attribute.Int("map.start_gate_y", m.startGate.Y),
		attribute.Int("map.end_gate_x", m.endGate.X),
		attribute.Int("map.end_gate_y", m.endGate.Y),
		attribute.Int64("map.fingerprint", int64(m.Fingerprint())),
		attribute.Int64("map.generation_ms", time.Since(startTime).Milliseconds()),
	)

	return m, nil
}

// storeTile is the automaton callback. Every pass replaces the tiles written
// by the previous one.
func (m *Map) storeTile(x, y, value int) {
	if x < 0 || y < 0 {
		return
	}
	tileY := y + m.topOffset

	for len(m.tiles) <= x {
		m.tiles = append(m.tiles, nil)
	}
	if m.tiles[x] == nil {
		m.tiles[x] = make([]*Tile, max(0, m.topOffset+m.height))
	}
	for len(m.tiles[x]) <= tileY {
		m.tiles[x] = append(m.tiles[x], nil)
	}

	m.tiles[x][tileY] = newTile(x, tileY, value == connectivityValue, m.style)
}

// Width returns the number of columns.
func (m *Map) Width() int { return m.width }

// Height returns the number of generated rows.
func (m *Map) Height() int { return m.height }

// TopOffset returns the row the generated area starts at.
func (m *Map) TopOffset() int { return m.topOffset }

// BottomRow returns the last generated row.
func (m *Map) BottomRow() int { return m.topOffset + m.height - 1 }

// StartGate returns the entrance tile.
func (m *Map) StartGate() *Tile {
	return m.tileAt(m.startGate.X, m.startGate.Y)
}

// EndGate returns the exit tile.
func (m *Map) EndGate() *Tile {
	return m.tileAt(m.endGate.X, m.endGate.Y)
}

// MatchesGate returns true if (x, y) is the start or the end gate.
func (m *Map) MatchesGate(x, y int) bool {
	p := Position{X: x, Y: y}
	return p == m.startGate || p == m.endGate
}

// IsNonWallTile returns true if a passable tile exists at (x, y).
func (m *Map) IsNonWallTile(x, y int) bool {
	tile := m.tileAt(x, y)
	return tile != nil && tile.IsPassable()
}

// IsSeenTile returns true if the tile at (x, y) has been observed.
func (m *Map) IsSeenTile(x, y int) bool {
	return m.seen.IsSeen(Position{X: x, Y: y})
}

// SeeTile marks pos as observed. Repeated calls are no-ops.
func (m *Map) SeeTile(pos Position) {
	m.seen.See(pos, m.tileAt(pos.X, pos.Y))
}

// Seen exposes the observation record.
func (m *Map) Seen() *Visibility {
	return m.seen
}

// DrawTiles draws every observed tile onto s.
func (m *Map) DrawTiles(s Surface) {
	for _, column := range m.tiles {
		for _, tile := range column {
			if tile != nil && m.seen.IsSeen(tile.Position()) {
				tile.Draw(s)
			}
		}
	}
}

// tileAt returns the tile at (x, y), or nil if there is none.
func (m *Map) tileAt(x, y int) *Tile {
	if x < 0 || x >= len(m.tiles) {
		return nil
	}
	column := m.tiles[x]
	if y < 0 || y >= len(column) {
		return nil
	}
	return column[y]
}

// Fingerprint hashes the passability layout and gate positions.
// Two maps built from the same seed and options share a fingerprint.
func (m *Map) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, column := range m.tiles {
		row := make([]byte, len(column))
		for y, tile := range column {
			if tile != nil && tile.Passable {
				row[y] = 1
			}
		}
		h.Write(row)
		h.Write([]byte{0xff})
	}
	for _, p := range []Position{m.startGate, m.endGate} {
		binary.LittleEndian.PutUint32(buf[:4], uint32(p.X))
		binary.LittleEndian.PutUint32(buf[4:], uint32(p.Y))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// String renders the generated rows as ASCII, one line per row.
func (m *Map) String() string {
	var sb strings.Builder
	for y := m.topOffset; y <= m.BottomRow(); y++ {
		for x := 0; x < len(m.tiles); x++ {
			switch {
			case m.startGate == (Position{X: x, Y: y}):
				sb.WriteByte('<')
			case m.endGate == (Position{X: x, Y: y}):
				sb.WriteByte('>')
			case m.IsNonWallTile(x, y):
				sb.WriteByte(GlyphFloor)
			default:
				sb.WriteByte(GlyphWall)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
