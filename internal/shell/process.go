package shell

import (
	"context"
	"fmt"
	"os"

	"github.com/iowarp/jarvis/internal/ctxlog"
)

// Rm removes a generated artifact, file or directory tree. Removing a path
// that is already gone is not an error, which is what makes stage clean
// operations idempotent.
func Rm(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	logger := ctxlog.FromContext(ctx)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Debug("Nothing to remove.", "path", path)
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	logger.Info("Removed artifact.", "path", path)
	return nil
}

// Mkdir creates a directory tree if it does not already exist.
func Mkdir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}
