package cron

import (
	"context"
	"fmt"

	"github.com/freshnest/insights-backend/pkg/logger"
)

type sessionSweeper interface {
	Sweep(ctx context.Context) int
	Len() int
}

type SessionSweepJobParams struct {
	Logger *logger.Logger
	Store  sessionSweeper
}

// NewSessionSweepJob builds the job that expires stale conversation
// contexts.
func NewSessionSweepJob(params SessionSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &sessionSweepJob{logg: params.Logger, store: params.Store}, nil
}

type sessionSweepJob struct {
	logg  *logger.Logger
	store sessionSweeper
}

func (j *sessionSweepJob) Name() string { return "session-sweep" }

func (j *sessionSweepJob) Run(ctx context.Context) error {
	removed := j.store.Sweep(ctx)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"sessions_removed":   removed,
		"sessions_remaining": j.store.Len(),
	})
	j.logg.Info(logCtx, "session sweep complete")
	return nil
}
