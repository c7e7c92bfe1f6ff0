package cron

import (
	"context"
	"testing"

	"github.com/freshnest/insights-backend/pkg/logger"
)

type fakeSweeper struct {
	removed   int
	remaining int
	sweeps    int
}

func (f *fakeSweeper) Sweep(context.Context) int {
	f.sweeps++
	return f.removed
}

func (f *fakeSweeper) Len() int { return f.remaining }

func TestSessionSweepJobRunsSweep(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	sweeper := &fakeSweeper{removed: 3, remaining: 2}
	job, err := NewSessionSweepJob(SessionSweepJobParams{Logger: logg, Store: sweeper})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "session-sweep" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if sweeper.sweeps != 1 {
		t.Fatalf("expected exactly one sweep, got %d", sweeper.sweeps)
	}
}

func TestNewSessionSweepJobValidatesParams(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	if _, err := NewSessionSweepJob(SessionSweepJobParams{Store: &fakeSweeper{}}); err == nil {
		t.Fatalf("expected missing-logger error")
	}
	if _, err := NewSessionSweepJob(SessionSweepJobParams{Logger: logg}); err == nil {
		t.Fatalf("expected missing-store error")
	}
}
