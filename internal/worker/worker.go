package worker

import (
	"context"
	"time"

	"github.com/yorkbites/orderdesk/internal/logger"
)

type OrderService interface {
	ResendConfirmations(ctx context.Context, orderCh <-chan string)
	GetOrdersForConfirmation(ctx context.Context, orderCh chan<- string) error
}

// ConfirmationProcessor is worker retrying confirmation sends for orders
// whose best-effort notification failed at creation time
type ConfirmationProcessor struct {
	svc OrderService
}

// NewConfirmationProcessor creates new confirmation processor
func NewConfirmationProcessor(svc OrderService) *ConfirmationProcessor {
	return &ConfirmationProcessor{svc: svc}
}

// ProcessConfirmations periodically scans for unconfirmed orders and
// re-publishes their confirmations
func (cp *ConfirmationProcessor) ProcessConfirmations(ctx context.Context) {
	orders := make(chan string, 10)

	go cp.svc.ResendConfirmations(ctx, orders)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("confirmation processor is done")
			return
		case <-ticker.C:
			if err := cp.svc.GetOrdersForConfirmation(ctx, orders); err != nil {
				logger.Log.Error("error get orders for confirmation")
			}
		}
	}
}
