package cron

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"

	"github.com/mazraaty/backend/internal/inventory"
	"github.com/mazraaty/backend/pkg/logger"
)

type fakeReconciler struct {
	results []inventory.ReconcileResult
	err     error
	called  int
}

func (f *fakeReconciler) ReconcileAll(_ context.Context) ([]inventory.ReconcileResult, error) {
	f.called++
	return f.results, f.err
}

func cronTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestInventoryReconcileJobRunsOnce(t *testing.T) {
	reconciler := &fakeReconciler{
		results: []inventory.ReconcileResult{
			{ProductID: uuid.New(), Drifted: false},
			{ProductID: uuid.New(), Drifted: true, Repaired: true},
		},
	}
	job, err := NewInventoryReconcileJob(InventoryReconcileJobParams{
		Logger:    cronTestLogger(),
		Inventory: reconciler,
	})
	if err != nil {
		t.Fatalf("NewInventoryReconcileJob: %v", err)
	}

	if job.Name() != "inventory-reconcile" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if reconciler.called != 1 {
		t.Fatalf("expected one reconcile pass, got %d", reconciler.called)
	}
}

func TestInventoryReconcileJobPropagatesErrors(t *testing.T) {
	reconciler := &fakeReconciler{err: errors.New("boom")}
	job, err := NewInventoryReconcileJob(InventoryReconcileJobParams{
		Logger:    cronTestLogger(),
		Inventory: reconciler,
	})
	if err != nil {
		t.Fatalf("NewInventoryReconcileJob: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestInventoryReconcileJobRequiresDeps(t *testing.T) {
	if _, err := NewInventoryReconcileJob(InventoryReconcileJobParams{Logger: cronTestLogger()}); err == nil {
		t.Fatal("expected error without inventory service")
	}
	if _, err := NewInventoryReconcileJob(InventoryReconcileJobParams{Inventory: &fakeReconciler{}}); err == nil {
		t.Fatal("expected error without logger")
	}
}
