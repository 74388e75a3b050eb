package categories

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"merchant/gateway"
	"merchant/models"
	"merchant/validators"
)

type Controller struct {
	api gateway.Doer
}

func NewController(api gateway.Doer) *Controller {
	return &Controller{api: api}
}

func (c *Controller) List(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := c.api.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/merchant/categories"}, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Category{}
	}
	return list, nil
}

func (c *Controller) Get(ctx context.Context, id int64) (models.Category, error) {
	var cat models.Category
	err := c.api.Do(ctx, gateway.Request{Method: http.MethodGet, Path: fmt.Sprintf("/categories/%d", id)}, &cat)
	return cat, err
}

func (c *Controller) Create(ctx context.Context, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validators.Required("name", name); err != nil {
		return models.Category{}, err
	}
	var cat models.Category
	err := c.api.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/categories",
		Body:   map[string]string{"name": name},
	}, &cat)
	return cat, err
}

func (c *Controller) Rename(ctx context.Context, id int64, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validators.Required("name", name); err != nil {
		return models.Category{}, err
	}
	var cat models.Category
	err := c.api.Do(ctx, gateway.Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/categories/%d", id),
		Body:   map[string]string{"name": name},
	}, &cat)
	return cat, err
}

func (c *Controller) Delete(ctx context.Context, id int64) error {
	return c.api.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: fmt.Sprintf("/categories/%d", id)}, nil)
}
