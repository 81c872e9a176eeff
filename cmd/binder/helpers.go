// Shared helpers for binder CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/binder/internal/auth"
	"github.com/mesh-intelligence/binder/internal/composite"
	"github.com/mesh-intelligence/binder/internal/sqlite"
	"github.com/mesh-intelligence/binder/pkg/types"
)

// cliLogger returns the logger shared by the backend and engine. Silent
// unless --verbose is set.
func cliLogger() zerolog.Logger {
	if !flagVerbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend:  types.BackendSQLite,
		DataDir:  dataDir,
		MaxDepth: configMaxDepth,
	}

	backend := sqlite.NewBackend()
	backend.SetLogger(cliLogger())
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// newEngine builds a hierarchy engine over the attached backend, enforcing
// ownership for the configured user.
func newEngine(backend *sqlite.Backend) *composite.Engine {
	authz := auth.NewService(configUserID)
	return composite.NewEngine(backend, authz, backend.Config().GetMaxDepth(), cliLogger())
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}
