package cron

import (
	"context"
	"fmt"

	"github.com/mazraaty/backend/internal/inventory"
	"github.com/mazraaty/backend/pkg/logger"
)

// inventoryReconciler replays the stock ledger and repairs cached levels.
type inventoryReconciler interface {
	ReconcileAll(ctx context.Context) ([]inventory.ReconcileResult, error)
}

// InventoryReconcileJobParams configure the ledger reconciliation job.
type InventoryReconcileJobParams struct {
	Logger    *logger.Logger
	Inventory inventoryReconciler
}

// NewInventoryReconcileJob builds the cron job that keeps cached stock levels
// honest against the append-only ledger.
func NewInventoryReconcileJob(params InventoryReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	return &inventoryReconcileJob{
		logg:      params.Logger,
		inventory: params.Inventory,
	}, nil
}

type inventoryReconcileJob struct {
	logg      *logger.Logger
	inventory inventoryReconciler
}

func (j *inventoryReconcileJob) Name() string { return "inventory-reconcile" }

func (j *inventoryReconcileJob) Run(ctx context.Context) error {
	results, err := j.inventory.ReconcileAll(ctx)

	drifted := 0
	for _, result := range results {
		if result.Drifted {
			drifted++
		}
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"checked": len(results),
		"drifted": drifted,
	})
	j.logg.Info(logCtx, "inventory reconcile loop complete")

	if err != nil {
		return fmt.Errorf("reconcile inventory: %w", err)
	}
	return nil
}
