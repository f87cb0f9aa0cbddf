package cron

import (
	"context"
	"fmt"

	"github.com/mazraaty/backend/pkg/logger"
)

// pendingSweeper re-delivers back-in-stock notifications missed at restock
// time.
type pendingSweeper interface {
	SweepPending(ctx context.Context) (int, error)
}

// StockNotifySweepJobParams configure the notification sweep job.
type StockNotifySweepJobParams struct {
	Logger        *logger.Logger
	Notifications pendingSweeper
}

// NewStockNotifySweepJob builds the cron job that catches notification
// subscribers left behind by a crashed dispatch.
func NewStockNotifySweepJob(params StockNotifySweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications service required")
	}
	return &stockNotifySweepJob{
		logg:          params.Logger,
		notifications: params.Notifications,
	}, nil
}

type stockNotifySweepJob struct {
	logg          *logger.Logger
	notifications pendingSweeper
}

func (j *stockNotifySweepJob) Name() string { return "stock-notify-sweep" }

func (j *stockNotifySweepJob) Run(ctx context.Context) error {
	sent, err := j.notifications.SweepPending(ctx)

	logCtx := j.logg.WithFields(ctx, map[string]any{"sent": sent})
	j.logg.Info(logCtx, "stock notification sweep complete")

	if err != nil {
		return fmt.Errorf("sweep stock notifications: %w", err)
	}
	return nil
}
