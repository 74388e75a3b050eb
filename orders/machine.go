// Package orders implements the order status rules and the orders screen.
//
// The transition graph is deliberately flat: from any non-terminal status the
// merchant may pick any other status. Only collected is locked. The backend
// is the authority and may refuse or override a requested change.
package orders

import (
	"merchant/apperr"
	"merchant/models"
)

// AllowedTargets lists the statuses the merchant may pick for an order in
// status from. It is empty once the order is collected.
func AllowedTargets(from models.OrderStatus) []models.OrderStatus {
	if from.Terminal() {
		return nil
	}
	cur, _ := models.ParseOrderStatus(string(from))
	targets := make([]models.OrderStatus, 0, len(models.OrderStatuses)-1)
	for _, st := range models.OrderStatuses {
		if st != cur {
			targets = append(targets, st)
		}
	}
	return targets
}

// CheckTransition validates a change locally, before any request is sent.
func CheckTransition(from, to models.OrderStatus) error {
	if from.Terminal() {
		return apperr.Validation("status", "This order has been collected and can no longer change.")
	}
	target, ok := models.ParseOrderStatus(string(to))
	if !ok {
		return apperr.Validation("status", "Unknown order status "+string(to)+".")
	}
	cur, _ := models.ParseOrderStatus(string(from))
	if target == cur {
		return apperr.Validation("status", "The order is already "+string(target)+".")
	}
	return nil
}
