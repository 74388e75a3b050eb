package orders

import (
	"context"
	"sync"

	"merchant/apperr"
	"merchant/models"
	"merchant/screen"
)

// Board is the state behind the orders screen: the cached list plus the
// transitions the merchant submits from it. Responses that land after Close
// are dropped instead of being applied to a screen that is gone.
type Board struct {
	svc   *Service
	scope *screen.Scope

	mu     sync.RWMutex
	orders []models.Order
}

func NewBoard(parent context.Context, svc *Service) *Board {
	return &Board{svc: svc, scope: screen.NewScope(parent)}
}

// Refresh reloads the list. The cache is kept as is when the request fails.
func (b *Board) Refresh() error {
	list, err := b.svc.List(b.scope.Context())
	if err != nil {
		return err
	}
	b.scope.Commit(func() {
		b.mu.Lock()
		b.orders = list
		b.mu.Unlock()
	})
	return nil
}

// Orders returns a copy of the cached list.
func (b *Board) Orders() []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]models.Order, len(b.orders))
	copy(out, b.orders)
	return out
}

// Order returns the cached order with id.
func (b *Board) Order(id int64) (models.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, o := range b.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

// Options is what the status picker offers for order id.
func (b *Board) Options(id int64) []models.OrderStatus {
	o, ok := b.Order(id)
	if !ok {
		return nil
	}
	return AllowedTargets(o.Status)
}

// UpdateStatus submits target for order id and, once the server confirms,
// writes the confirmed status into the cache. Only Status follows the
// server's reply: the returned order is the cached copy from before the
// call with the confirmed status applied, and notes are not echoed back.
func (b *Board) UpdateStatus(id int64, target models.OrderStatus, notes string) (models.Order, error) {
	o, ok := b.Order(id)
	if !ok {
		return models.Order{}, apperr.Validation("order", "Order not found on this screen.")
	}
	if err := b.svc.ApplyTransition(b.scope.Context(), &o, target, notes); err != nil {
		return models.Order{}, err
	}
	b.scope.Commit(func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.orders {
			if b.orders[i].ID == id {
				b.orders[i].Status = o.Status
			}
		}
	})
	return o, nil
}

// Close unmounts the screen and cancels its in-flight requests.
func (b *Board) Close() {
	b.scope.Close()
}
