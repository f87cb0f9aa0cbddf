package cron

import (
	"context"
	"errors"
	"testing"
)

type fakeSweeper struct {
	sent   int
	err    error
	called int
}

func (f *fakeSweeper) SweepPending(_ context.Context) (int, error) {
	f.called++
	return f.sent, f.err
}

func TestStockNotifySweepJobRunsOnce(t *testing.T) {
	sweeper := &fakeSweeper{sent: 3}
	job, err := NewStockNotifySweepJob(StockNotifySweepJobParams{
		Logger:        cronTestLogger(),
		Notifications: sweeper,
	})
	if err != nil {
		t.Fatalf("NewStockNotifySweepJob: %v", err)
	}

	if job.Name() != "stock-notify-sweep" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sweeper.called != 1 {
		t.Fatalf("expected one sweep, got %d", sweeper.called)
	}
}

func TestStockNotifySweepJobPropagatesErrors(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("smtp down")}
	job, err := NewStockNotifySweepJob(StockNotifySweepJobParams{
		Logger:        cronTestLogger(),
		Notifications: sweeper,
	})
	if err != nil {
		t.Fatalf("NewStockNotifySweepJob: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
