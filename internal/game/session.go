package game

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/demongate/internal/entity"
	"github.com/samdwyer/demongate/internal/telemetry"
	"github.com/samdwyer/demongate/internal/world"
)

// Session is one run: the current level, the party on it and the fire below.
type Session struct {
	cfg  Config
	opts world.MapOptions

	Level   *world.Map
	Party   *entity.Party
	Depth   int // Levels entered so far
	Turn    int // Moves made on the current run
	Burning int // Rows of fire at the bottom of the level
	State   State
}

// NewSession generates the first level and places the party on its start gate.
func NewSession(ctx context.Context, cfg Config, opts world.MapOptions) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Session{
		cfg:   cfg,
		opts:  opts,
		Party: entity.NewParty(0, 0),
		State: StateExplore,
	}
	if err := s.enterLevel(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Restart begins a new run from the first level.
func (s *Session) Restart(ctx context.Context) error {
	s.Depth = 0
	s.Turn = 0
	s.State = StateExplore
	return s.enterLevel(ctx)
}

// Move tries to step the party by the given delta. Walls, and any move after
// the party has burned, are ignored. Stepping onto the end gate descends to a
// fresh level.
func (s *Session) Move(ctx context.Context, dx, dy int) (bool, error) {
	if s.State != StateExplore {
		return false, nil
	}

	x, y := s.Party.Target(dx, dy)
	if !s.Level.IsNonWallTile(x, y) {
		return false, nil
	}

	s.Party.MoveTo(x, y)
	s.Turn++
	if s.Turn%s.cfg.FireRiseTurns == 0 {
		s.Burning++
	}

	if s.atEndGate() {
		return true, s.enterLevel(ctx)
	}

	s.reveal()
	if s.inFire(y) {
		s.State = StateBurned
		logr.FromContextOrDiscard(ctx).Info("party burned",
			"depth", s.Depth, "turn", s.Turn, "fire", s.Burning)
	}
	return true, nil
}

// Status is the one-line summary shown above the level.
func (s *Session) Status() string {
	if s.State == StateBurned {
		return fmt.Sprintf("Depth %d  Turn %d  The demon fire took you. Press any key.", s.Depth, s.Turn)
	}
	return fmt.Sprintf("Depth %d  Turn %d  Fire %d", s.Depth, s.Turn, s.Burning)
}

func (s *Session) enterLevel(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "session.enter_level")
	defer span.End()

	level, err := world.Generate(ctx, s.cfg.Width, s.cfg.Height, s.opts, s.cfg.MaxGenerationAttempts)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("generating depth %d: %w", s.Depth+1, err)
	}

	s.Level = level
	s.Depth++

	start := level.StartGate()
	s.Party.MoveTo(start.X, start.Y)
	s.reveal()

	// The fire starts below the start gate row.
	s.Burning = min(s.cfg.BurningStart, level.BottomRow()-start.Y)

	span.SetAttributes(
		attribute.String("level.id", level.ID),
		attribute.Int("level.depth", s.Depth),
		attribute.Int("party.start_x", start.X),
		attribute.Int("party.start_y", start.Y),
	)
	logr.FromContextOrDiscard(ctx).V(1).Info("entered level", "depth", s.Depth, "id", level.ID)
	return nil
}

func (s *Session) atEndGate() bool {
	end := s.Level.EndGate()
	return end.X == s.Party.X && end.Y == s.Party.Y
}

// reveal marks everything within the sight radius of the party as seen.
func (s *Session) reveal() {
	r := s.cfg.SightRadius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			s.Level.SeeTile(world.Position{X: s.Party.X + dx, Y: s.Party.Y + dy})
		}
	}
}

func (s *Session) inFire(y int) bool {
	return s.Burning > 0 && y > s.Level.BottomRow()-s.Burning
}
