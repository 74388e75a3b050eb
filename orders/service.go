package orders

import (
	"context"
	"fmt"
	"net/http"

	"merchant/apperr"
	"merchant/gateway"
	"merchant/models"
)

type Service struct {
	api gateway.Doer
}

func NewService(api gateway.Doer) *Service {
	return &Service{api: api}
}

// List fetches the merchant's orders, newest first as the backend sends them.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	var list []models.Order
	if err := s.api.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/merchant/orders"}, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Order{}
	}
	return list, nil
}

// ApplyTransition asks the backend to move order to target. Nothing is sent
// for a collected order. On success order.Status takes the value the server
// confirmed, which need not equal target; on failure order is untouched.
func (s *Service) ApplyTransition(ctx context.Context, order *models.Order, target models.OrderStatus, notes string) error {
	if err := CheckTransition(order.Status, target); err != nil {
		return err
	}
	canonical, _ := models.ParseOrderStatus(string(target))

	var confirmed models.Order
	err := s.api.Do(ctx, gateway.Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/merchant/orders/%d/status", order.ID),
		Body:   models.StatusUpdate{Status: canonical, Notes: notes},
	}, &confirmed)
	if err != nil {
		return err
	}
	if confirmed.Status == "" {
		return apperr.RequestFailed(http.StatusOK, "The server did not confirm the new status.")
	}
	order.Status = confirmed.Status
	return nil
}
