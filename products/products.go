package products

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"merchant/apperr"
	"merchant/gateway"
	"merchant/media"
	"merchant/models"
	"merchant/validators"
)

// AllCategories selects every product instead of one category.
const AllCategories int64 = 0

type Controller struct {
	api gateway.Doer
}

func NewController(api gateway.Doer) *Controller {
	return &Controller{api: api}
}

// List returns the merchant's products, optionally narrowed to categoryID.
func (c *Controller) List(ctx context.Context, categoryID int64) ([]models.Product, error) {
	path := "/merchant/products"
	if categoryID != AllCategories {
		path = fmt.Sprintf("/products/category/%d", categoryID)
	}
	var list []models.Product
	if err := c.api.Do(ctx, gateway.Request{Method: http.MethodGet, Path: path}, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Product{}
	}
	return list, nil
}

func (c *Controller) Get(ctx context.Context, id int64) (models.Product, error) {
	var p models.Product
	err := c.api.Do(ctx, gateway.Request{Method: http.MethodGet, Path: fmt.Sprintf("/merchant/products/%d", id)}, &p)
	return p, err
}

func (c *Controller) Create(ctx context.Context, in models.ProductInput) (models.Product, error) {
	form, err := buildForm(in)
	if err != nil {
		return models.Product{}, err
	}
	var p models.Product
	err = c.api.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "/products", Form: form}, &p)
	return p, err
}

func (c *Controller) Update(ctx context.Context, id int64, in models.ProductInput) (models.Product, error) {
	form, err := buildForm(in)
	if err != nil {
		return models.Product{}, err
	}
	var p models.Product
	err = c.api.Do(ctx, gateway.Request{Method: http.MethodPut, Path: fmt.Sprintf("/products/%d", id), Form: form}, &p)
	return p, err
}

func (c *Controller) Delete(ctx context.Context, id int64) error {
	return c.api.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: fmt.Sprintf("/products/%d", id)}, nil)
}

// ClearImage removes the product photo. The route lives outside /api.
func (c *Controller) ClearImage(ctx context.Context, id int64) error {
	return c.api.Do(ctx, gateway.Request{
		Method:       http.MethodDelete,
		Path:         fmt.Sprintf("/product/%d/clear-image", id),
		HostRelative: true,
	}, nil)
}

func buildForm(in models.ProductInput) (*gateway.Form, error) {
	err := validators.First(
		validators.Required("name", in.Name),
		validators.Required("price", in.Price),
	)
	if err != nil {
		return nil, err
	}
	price, err := validators.ParsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	if in.CategoryID <= 0 {
		return nil, apperr.Validation("category_id", "category is required")
	}

	form := gateway.NewForm().
		Field("name", strings.TrimSpace(in.Name)).
		Field("price", price.StringFixed(2)).
		Field("category_id", strconv.FormatInt(in.CategoryID, 10)).
		Field("is_available", strconv.FormatBool(in.IsAvailable))
	if d := strings.TrimSpace(in.Description); d != "" {
		form.Field("description", d)
	}
	if len(in.Image) > 0 {
		img, err := media.PrepareUpload(in.Image, media.ProductMaxDim)
		if err != nil {
			return nil, apperr.Validation("image", "The selected image could not be read.")
		}
		form.File("image", "product.jpg", "image/jpeg", img)
	}
	return form, nil
}
