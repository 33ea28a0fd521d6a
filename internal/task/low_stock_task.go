package task

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"marketplace_api/internal/repository"
)

const lowStockTimeout = time.Minute

// LowStockTask logs every inventory row at or below its reorder level.
type LowStockTask struct {
	inventory repository.InventoryRepository
	log       *zap.Logger
	spec      string
	cron      *cron.Cron
}

func NewLowStockTask(inventory repository.InventoryRepository, spec string, log *zap.Logger) *LowStockTask {
	if log == nil {
		log = zap.NewNop()
	}
	return &LowStockTask{
		inventory: inventory,
		log:       log.Named("low_stock"),
		spec:      spec,
		cron:      cron.New(),
	}
}

// Start schedules the report. The spec uses the standard five cron fields or a
// descriptor such as "@every 1h".
func (t *LowStockTask) Start() error {
	if _, err := t.cron.AddFunc(t.spec, t.runScheduled); err != nil {
		return fmt.Errorf("schedule low stock report %q: %w", t.spec, err)
	}
	t.cron.Start()
	t.log.Info("low stock report scheduled", zap.String("spec", t.spec))
	return nil
}

// Stop waits for a running report to finish.
func (t *LowStockTask) Stop() {
	<-t.cron.Stop().Done()
}

func (t *LowStockTask) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), lowStockTimeout)
	defer cancel()

	if _, err := t.RunOnce(ctx); err != nil {
		t.log.Error("low stock report failed", zap.Error(err))
	}
}

// RunOnce reads the low-stock rows, logs them and returns them.
func (t *LowStockTask) RunOnce(ctx context.Context) ([]repository.LowStockItem, error) {
	items, err := t.inventory.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		t.log.Warn("low stock",
			zap.Int64("product_id", item.ProductID),
			zap.String("product_name", item.ProductName),
			zap.Int("quantity", item.Quantity),
			zap.Int("reorder_level", item.ReorderLevel),
		)
	}
	t.log.Info("low stock report done", zap.Int("items", len(items)))
	return items, nil
}
