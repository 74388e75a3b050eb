package reviews

import (
	"context"
	"net/http"

	"merchant/gateway"
	"merchant/models"
)

type Controller struct {
	api gateway.Doer
}

func NewController(api gateway.Doer) *Controller {
	return &Controller{api: api}
}

func (c *Controller) List(ctx context.Context) ([]models.Review, error) {
	var list []models.Review
	if err := c.api.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/merchant/reviews"}, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Review{}
	}
	return list, nil
}

// Average returns the mean rating, 0 for no reviews.
func Average(list []models.Review) float64 {
	if len(list) == 0 {
		return 0
	}
	sum := 0
	for _, r := range list {
		sum += r.Rating
	}
	return float64(sum) / float64(len(list))
}
