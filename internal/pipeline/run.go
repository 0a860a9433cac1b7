package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/iowarp/jarvis/internal/ctxlog"
)

// Run executes the whole pipeline end to end: configure every package, then
// start each in order. Each run gets its own id for log correlation. Whether
// a failed run is retried is the caller's decision; Run itself never retries.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.New().String()
	logger := ctxlog.FromContext(ctx).With("pipeline", p.Name, "run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)

	logger.Info("Pipeline run starting.", "packages", len(p.pkgs))
	if err := p.Configure(ctx); err != nil {
		logger.Error("Pipeline run aborted during configuration.", "error", err)
		return err
	}
	if err := p.Start(ctx); err != nil {
		logger.Error("Pipeline run failed.", "error", err)
		return err
	}
	logger.Info("Pipeline run finished.")
	return nil
}
