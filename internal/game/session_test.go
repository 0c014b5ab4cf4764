package game

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/demongate/internal/cellular"
	"github.com/samdwyer/demongate/internal/world"
)

// corridor is an automaton whose only open cells are column 1.
type corridor struct {
	width, height int
}

func (c corridor) Randomize(float64) {}

func (c corridor) Create(cb cellular.Callback) { c.emit(cb) }

func (c corridor) Connect(cb cellular.Callback, _ int) { c.emit(cb) }

func (c corridor) emit(cb cellular.Callback) {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			v := 0
			if x == 1 {
				v = 1
			}
			cb(x, y, v)
		}
	}
}

func corridorSession(t *testing.T, height, fireRiseTurns int) *Session {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width = 3
	cfg.Height = height
	cfg.TopOffset = 0
	cfg.FireRiseTurns = fireRiseTurns
	cfg.SightRadius = 1

	opts := world.MapOptions{
		Rand:      rand.New(rand.NewSource(1)),
		Automaton: func(w, h int, _ *rand.Rand) world.Automaton { return corridor{w, h} },
	}
	s, err := NewSession(context.Background(), cfg, opts)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

func TestNewSessionStartsOnStartGate(t *testing.T) {
	s := corridorSession(t, 5, 100)

	if s.Depth != 1 || s.Turn != 0 || s.State != StateExplore {
		t.Errorf("NewSession() = depth %d turn %d state %v, want 1/0/explore", s.Depth, s.Turn, s.State)
	}
	start := s.Level.StartGate()
	if s.Party.X != start.X || s.Party.Y != start.Y {
		t.Errorf("party at (%d,%d), want start gate (%d,%d)", s.Party.X, s.Party.Y, start.X, start.Y)
	}
	if start.X != 1 || start.Y != 4 {
		t.Errorf("start gate = (%d,%d), want (1,4)", start.X, start.Y)
	}
	if !s.Level.IsSeenTile(1, 4) || !s.Level.IsSeenTile(1, 3) {
		t.Error("tiles around the party should be revealed")
	}
	if s.Level.IsSeenTile(1, 1) {
		t.Error("tiles beyond the sight radius should stay hidden")
	}
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := Config{Width: 3, Height: 4, SightRadius: 1}
	opts := world.MapOptions{
		Rand:      rand.New(rand.NewSource(1)),
		Automaton: func(w, h int, _ *rand.Rand) world.Automaton { return corridor{w, h} },
	}

	s, err := NewSession(context.Background(), cfg, opts)
	if err == nil {
		t.Fatal("NewSession() with zero fire rise turns should fail")
	}
	if s != nil {
		t.Error("NewSession() should not return a session on error")
	}
	if !strings.Contains(err.Error(), "fire rise") {
		t.Errorf("NewSession() error = %q, want it to mention fire rise", err)
	}
}

func TestNewSessionFireStartsBelowParty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 3
	cfg.Height = 5
	cfg.TopOffset = 0
	cfg.BurningStart = 2
	cfg.SightRadius = 1

	opts := world.MapOptions{
		Rand:      rand.New(rand.NewSource(1)),
		Automaton: func(w, h int, _ *rand.Rand) world.Automaton { return corridor{w, h} },
	}
	s, err := NewSession(context.Background(), cfg, opts)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if s.Party.Y != s.Level.BottomRow() {
		t.Fatalf("party row = %d, want bottom row %d", s.Party.Y, s.Level.BottomRow())
	}
	if s.State != StateExplore {
		t.Errorf("State = %v on arrival, want explore", s.State)
	}
	if s.inFire(s.Party.Y) {
		t.Errorf("party at row %d is inside a fire band of %d rows", s.Party.Y, s.Burning)
	}
	if s.Burning != 0 {
		t.Errorf("Burning = %d, want 0 with the start gate on the bottom row", s.Burning)
	}

	// Climbing lets the fire start at the configured height on the next level.
	for i := 0; i < 4; i++ {
		if _, err := s.Move(context.Background(), 0, -1); err != nil {
			t.Fatalf("Move() error = %v", err)
		}
	}
	if s.Depth != 2 || s.State != StateExplore || s.inFire(s.Party.Y) {
		t.Errorf("after descending: depth %d state %v fire %d party row %d",
			s.Depth, s.State, s.Burning, s.Party.Y)
	}
}

func TestMoveBlockedByWall(t *testing.T) {
	s := corridorSession(t, 5, 100)

	moved, err := s.Move(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if moved || s.Turn != 0 {
		t.Errorf("Move into wall: moved=%v turn=%d, want false/0", moved, s.Turn)
	}

	moved, _ = s.Move(context.Background(), 0, 1)
	if moved {
		t.Error("moving below the bottom row should be refused")
	}
}

func TestMoveDescendsAtEndGate(t *testing.T) {
	s := corridorSession(t, 3, 100)
	ctx := context.Background()
	firstLevel := s.Level

	for i := 0; i < 2; i++ {
		moved, err := s.Move(ctx, 0, -1)
		if err != nil || !moved {
			t.Fatalf("Move %d: moved=%v err=%v", i, moved, err)
		}
	}

	if s.Depth != 2 {
		t.Errorf("Depth = %d after reaching the end gate, want 2", s.Depth)
	}
	if s.Level == firstLevel {
		t.Error("a new level should be generated")
	}
	start := s.Level.StartGate()
	if s.Party.X != start.X || s.Party.Y != start.Y {
		t.Errorf("party at (%d,%d), want new start gate (%d,%d)", s.Party.X, s.Party.Y, start.X, start.Y)
	}
	if s.Turn != 2 {
		t.Errorf("Turn = %d, want 2", s.Turn)
	}
}

func TestFireRisesAndBurns(t *testing.T) {
	s := corridorSession(t, 6, 1)
	ctx := context.Background()

	// Climbing keeps pace with the fire.
	if _, err := s.Move(ctx, 0, -1); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if s.Burning != 1 || s.State != StateExplore {
		t.Fatalf("after climbing: fire=%d state=%v, want 1/explore", s.Burning, s.State)
	}

	// Stepping back down into the rising fire burns the party.
	if _, err := s.Move(ctx, 0, 1); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if s.State != StateBurned {
		t.Fatalf("State = %v, want burned", s.State)
	}

	moved, _ := s.Move(ctx, 0, -1)
	if moved {
		t.Error("a burned party should not move")
	}

	if err := s.Restart(ctx); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}
	if s.State != StateExplore || s.Depth != 1 || s.Turn != 0 || s.Burning != 0 {
		t.Errorf("Restart() = state %v depth %d turn %d fire %d", s.State, s.Depth, s.Turn, s.Burning)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateExplore, "explore"},
		{StateBurned, "burned"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.expected)
		}
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		ev     *tcell.EventKey
		dx, dy int
		ok     bool
	}{
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), 0, -1, true},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), -1, 0, true},
		{tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone), 0, 1, true},
		{tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone), 1, 0, true},
		{tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), 0, 0, false},
	}

	for _, tt := range tests {
		dx, dy, ok := direction(tt.ev)
		if dx != tt.dx || dy != tt.dy || ok != tt.ok {
			t.Errorf("direction(%v) = (%d,%d,%v), want (%d,%d,%v)", tt.ev.Name(), dx, dy, ok, tt.dx, tt.dy, tt.ok)
		}
	}
}
