package game

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samdwyer/demongate/internal/gamedata"
	"github.com/samdwyer/demongate/internal/world"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvSeed          = "DEMONGATE_SEED"
	EnvWidth         = "DEMONGATE_WIDTH"
	EnvHeight        = "DEMONGATE_HEIGHT"
	EnvTopOffset     = "DEMONGATE_TOP_OFFSET"
	EnvFireStart     = "DEMONGATE_FIRE_START"
	EnvFireRiseTurns = "DEMONGATE_FIRE_RISE_TURNS"
	EnvSightRadius   = "DEMONGATE_SIGHT_RADIUS"
	EnvMaxAttempts   = "DEMONGATE_MAX_ATTEMPTS"
	EnvLogFile       = "DEMONGATE_LOG_FILE"
)

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible level generation.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	Width     int // Level columns
	Height    int // Generated level rows
	TopOffset int // Screen rows above the level

	BurningStart  int // Fire height on arrival at a level
	FireRiseTurns int // Turns between each one-row rise of the fire
	SightRadius   int // Reveal radius around the party

	MaxGenerationAttempts uint
	LogFile               string
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Width:                 world.DefaultWidth,
		Height:                world.DefaultHeight,
		TopOffset:             world.DefaultTopOffset,
		BurningStart:          0,
		FireRiseTurns:         6,
		SightRadius:           5,
		MaxGenerationAttempts: world.DefaultMaxAttempts,
		LogFile:               "demongate.log",
	}
}

// ConfigFromEnv reads the configuration from the process environment.
func ConfigFromEnv() (Config, error) {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return ParseConfig(env)
}

// ParseConfig builds a Config from key/value pairs, falling back to defaults
// for missing keys.
func ParseConfig(env map[string]string) (Config, error) {
	cfg := DefaultConfig()

	ints := []struct {
		key string
		dst *int
	}{
		{EnvWidth, &cfg.Width},
		{EnvHeight, &cfg.Height},
		{EnvTopOffset, &cfg.TopOffset},
		{EnvFireStart, &cfg.BurningStart},
		{EnvFireRiseTurns, &cfg.FireRiseTurns},
		{EnvSightRadius, &cfg.SightRadius},
	}
	for _, f := range ints {
		v, ok := env[f.key]
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = n
	}

	if v := env[EnvSeed]; v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}
	if v := env[EnvMaxAttempts]; v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvMaxAttempts, err)
		}
		cfg.MaxGenerationAttempts = uint(n)
	}
	if v, ok := env[EnvLogFile]; ok {
		cfg.LogFile = v
	}

	return cfg, cfg.Validate()
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0:
		return errors.New("width must be positive")
	case c.Height <= 0:
		return errors.New("height must be positive")
	case c.TopOffset < 0:
		return errors.New("top offset must not be negative")
	case c.BurningStart < 0 || c.BurningStart >= c.Height:
		return fmt.Errorf("fire start must be in [0, %d)", c.Height)
	case c.FireRiseTurns <= 0:
		return errors.New("fire rise turns must be positive")
	case c.SightRadius < 0:
		return errors.New("sight radius must not be negative")
	}
	return nil
}

// NewRand returns the RNG for this configuration, honouring a fixed seed.
func (c Config) NewRand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// MapOptions builds level options drawn with the given palette.
func (c Config) MapOptions(palette *gamedata.Palette) world.MapOptions {
	opts := world.DefaultMapOptions()
	opts.TopOffset = c.TopOffset
	opts.Rand = c.NewRand()
	if palette != nil {
		opts.Style = world.TileStyle{
			Floor: appearance(palette.Tiles.Floor),
			Wall:  appearance(palette.Tiles.Wall),
		}
		opts.FireGradient = palette.FireGradient()
	}
	return opts
}

func appearance(g gamedata.GlyphDef) world.Appearance {
	return world.Appearance{Glyph: g.GlyphRune(), Fg: g.FgColor(), Bg: g.BgColor()}
}
