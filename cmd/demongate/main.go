// Package main is the entry point for demongate.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/samdwyer/demongate/internal/game"
	"github.com/samdwyer/demongate/internal/gamedata"
	"github.com/samdwyer/demongate/internal/telemetry"
	"github.com/samdwyer/demongate/internal/world"
)

func main() {
	if err := run(); err != nil {
		log.Printf("demongate: %v", err)
		os.Exit(1)
	}
}

// run wires configuration, logging and telemetry, then either plays the game
// or dumps one level when stdout is not a terminal.
func run() error {
	logger := stdr.New(log.New(os.Stderr, "demongate ", log.LstdFlags))

	// Load .env file for local development
	// This makes DEMONGATE_* and HONEYCOMB_DEMONGATE_* available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		logger.V(1).Info(".env file not loaded", "error", err.Error())
	}

	cfg, err := game.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	palette, err := gamedata.LoadPalette()
	if err != nil {
		return fmt.Errorf("loading palette: %w", err)
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		// The terminal belongs to the game; keep logs out of it.
		out, closeLog := openLog(cfg.LogFile)
		defer closeLog()
		logger = stdr.New(log.New(out, "demongate ", log.LstdFlags))
	}

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	ctx := logr.NewContext(context.Background(), logger)

	// Initialize telemetry
	shutdown, err := telemetry.Setup(ctx, logger)
	if err != nil {
		logger.Info("telemetry setup failed, running without observability", "error", err.Error())
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Error(err, "shutting down telemetry")
			}
		}()
	}

	if !interactive {
		if err := dump(ctx, os.Stdout, cfg, palette); err != nil {
			logger.Error(err, "level generation failed")
			return err
		}
		return nil
	}

	// Create and run game
	g, err := game.New(cfg, palette)
	if err != nil {
		logger.Error(err, "failed to initialize game")
		return err
	}

	if err := g.Run(ctx); err != nil {
		logger.Error(err, "game error")
		return err
	}
	return nil
}

// dump prints one generated level as ASCII, for pipes and scripts.
func dump(ctx context.Context, w io.Writer, cfg game.Config, palette *gamedata.Palette) error {
	level, err := world.Generate(ctx, cfg.Width, cfg.Height, cfg.MapOptions(palette), cfg.MaxGenerationAttempts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, level.String())
	return err
}

// openLog opens the log file for appending, falling back to discarding output.
func openLog(path string) (io.Writer, func()) {
	if path == "" {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_DEMONGATE_API_KEY")
	if apiKey == "" {
		return
	}

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}

	dataset := os.Getenv("HONEYCOMB_DEMONGATE_DATASET")
	if dataset == "" {
		dataset = "demongate" // default dataset name
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
