package task

import (
	"context"

	"go.uber.org/zap"

	"marketplace_api/internal/repository"
)

// ==================== TaskManager ====================

// TaskManager owns the background jobs.
type TaskManager struct {
	lowStock      *LowStockTask
	lowStockCron  string
	lowStockStart bool
	log           *zap.Logger
}

type TaskManagerConfig struct {
	// LowStockCron is the report schedule; empty leaves the report manual-only.
	LowStockCron string
}

func NewTaskManager(store *repository.Store, cfg TaskManagerConfig, log *zap.Logger) *TaskManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskManager{
		lowStock:     NewLowStockTask(store.Inventory, cfg.LowStockCron, log),
		lowStockCron: cfg.LowStockCron,
		log:          log,
	}
}

// ==================== Lifecycle ====================

func (tm *TaskManager) Start() error {
	if tm.lowStockCron != "" {
		if err := tm.lowStock.Start(); err != nil {
			return err
		}
		tm.lowStockStart = true
	}
	tm.log.Info("background tasks started", zap.Any("scheduled", tm.Status()))
	return nil
}

func (tm *TaskManager) Stop() {
	if tm.lowStockStart {
		tm.lowStock.Stop()
		tm.lowStockStart = false
	}
	tm.log.Info("background tasks stopped")
}

// ==================== Manual trigger ====================

// TriggerLowStockReport runs the report now, whether or not it is scheduled.
func (tm *TaskManager) TriggerLowStockReport(ctx context.Context) ([]repository.LowStockItem, error) {
	return tm.lowStock.RunOnce(ctx)
}

// Status reports which jobs are scheduled.
func (tm *TaskManager) Status() map[string]bool {
	return map[string]bool{
		"low_stock": tm.lowStockCron != "",
	}
}
