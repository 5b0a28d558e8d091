package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"recordstore/models"
)

const (
	stageInterval    = 5 * time.Minute
	deliveryFallback = 45 * time.Minute
	progressTimeout  = 10 * time.Second
)

// Progressor advances freshly created orders through the fulfillment
// sequence on timers: one stage every few minutes, with delivery pinned
// to the order's estimated delivery time. Every step goes through the
// guarded transition in OrderService, so a cancelled order simply stops
// progressing: the timers fire, fail the transition check and give up.
type Progressor struct {
	orders *OrderService
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	timers []*time.Timer
}

func NewProgressor(orders *OrderService, logger *zap.Logger) *Progressor {
	return &Progressor{orders: orders, logger: logger, now: time.Now}
}

// Schedule plans the automatic transitions for a just-created order.
func (p *Progressor) Schedule(order *models.Order) {
	stages := []struct {
		status models.OrderStatus
		at     time.Time
	}{
		{models.StatusPickingUp, order.CreatedAt.Add(stageInterval)},
		{models.StatusPreparing, order.CreatedAt.Add(2 * stageInterval)},
		{models.StatusDelivering, order.CreatedAt.Add(3 * stageInterval)},
		{models.StatusDelivered, p.deliveryTime(order)},
	}

	orderID := order.ID.Hex()
	for _, stage := range stages {
		p.schedule(orderID, stage.status, stage.at)
	}
}

func (p *Progressor) schedule(orderID string, status models.OrderStatus, at time.Time) {
	delay := at.Sub(p.now())
	if delay < 0 {
		delay = 0
	}

	timer := time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), progressTimeout)
		defer cancel()

		_, err := p.orders.UpdateStatus(ctx, orderID, status, "")
		switch {
		case err == nil:
			p.logger.Info("order advanced",
				zap.String("orderId", orderID), zap.String("status", string(status)))
		case errors.Is(err, ErrInvalidTransition):
			// Already past this stage, or cancelled.
		default:
			p.logger.Error("automatic status update failed",
				zap.String("orderId", orderID), zap.Error(err))
		}
	})

	p.mu.Lock()
	p.timers = append(p.timers, timer)
	p.mu.Unlock()
}

// deliveryTime resolves the order's HH:MM estimate to the next wall-clock
// occurrence of that time; estimates in the past roll to tomorrow. Orders
// without an estimate fall back to a fixed delay.
func (p *Progressor) deliveryTime(order *models.Order) time.Time {
	parsed, err := time.Parse("15:04", order.EstimatedDeliveryTime)
	if err != nil {
		return order.CreatedAt.Add(deliveryFallback)
	}

	now := p.now()
	eta := time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
	if eta.Before(now) {
		eta = eta.AddDate(0, 0, 1)
	}
	return eta
}

// Stop cancels all pending transitions; used on shutdown.
func (p *Progressor) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.timers {
		t.Stop()
	}
	p.timers = nil
}
