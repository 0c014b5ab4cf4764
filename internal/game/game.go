package game

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"

	"github.com/samdwyer/demongate/internal/gamedata"
	"github.com/samdwyer/demongate/internal/telemetry"
	"github.com/samdwyer/demongate/internal/ui"
)

// Game holds the terminal and the running session.
type Game struct {
	cfg      Config
	palette  *gamedata.Palette
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *Session
	running  bool
}

// New creates a new game instance.
func New(cfg Config, palette *gamedata.Palette) (*Game, error) {
	screen, err := ui.NewScreen(palette.Status.Style())
	if err != nil {
		return nil, err
	}

	return &Game{
		cfg:      cfg,
		palette:  palette,
		screen:   screen,
		renderer: ui.NewRenderer(screen, palette),
		running:  true,
	}, nil
}

// Run executes the main game loop.
func (g *Game) Run(ctx context.Context) error {
	defer g.Close()

	tracer := telemetry.Tracer("game")
	initCtx, initSpan := tracer.Start(ctx, "game.init")
	session, err := NewSession(initCtx, g.cfg, g.cfg.MapOptions(g.palette))
	initSpan.End()
	if err != nil {
		return err
	}
	g.session = session

	// Main game loop
	for g.running {
		g.renderer.Render(g.session.Level, g.session.Party, g.session.Burning, g.session.Status())

		// Handle input (blocking)
		if err := g.handleInput(ctx); err != nil {
			return err
		}
	}
	return nil
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) error {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		return g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return nil
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) error {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
		(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
		g.running = false
		return nil
	}

	if g.session.State == StateBurned {
		logr.FromContextOrDiscard(ctx).Info("restarting run", "depth", g.session.Depth)
		return g.session.Restart(ctx)
	}

	dx, dy, ok := direction(ev)
	if !ok {
		return nil
	}
	_, err := g.session.Move(ctx, dx, dy)
	return err
}

// direction maps arrow keys and hjkl to a step.
func direction(ev *tcell.EventKey) (dx, dy int, ok bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return 0, -1, true
	case tcell.KeyDown:
		return 0, 1, true
	case tcell.KeyLeft:
		return -1, 0, true
	case tcell.KeyRight:
		return 1, 0, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			return 0, -1, true
		case 'j':
			return 0, 1, true
		case 'h':
			return -1, 0, true
		case 'l':
			return 1, 0, true
		}
	}
	return 0, 0, false
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
		g.screen = nil
	}
}
