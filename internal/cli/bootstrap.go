// Package cli provides CLI commands for shopplan.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/example/shopplan/internal/config"
	"github.com/example/shopplan/internal/ctxutil"
	"github.com/example/shopplan/internal/logger"
	"github.com/example/shopplan/internal/wire"
)

// globalActorID stores the detected actor ID for the current CLI invocation.
// Set once at startup by Setup.
var globalActorID string

// Setup loads configuration from the working directory, applies the log
// level and detects the actor. Called once from the root command's
// PersistentPreRunE.
func Setup(actorFlag string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.Load(wd)
	if err != nil {
		return err
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return err
	}
	wire.Configure(cfg)

	globalActorID = detectActor(actorFlag, cfg.Actor)
	return nil
}

// detectActor picks the first non-empty of the flag, the configured actor and
// $USER, falling back to "cli".
func detectActor(candidates ...string) string {
	candidates = append(candidates, os.Getenv("USER"))
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return "cli"
}

// GetActorID returns the stored actor ID from CLI startup.
// Returns empty string if Setup was not called.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() context.Context {
	ctx := context.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}
