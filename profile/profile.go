package profile

import (
	"context"
	"net/http"
	"strings"

	"merchant/apperr"
	"merchant/gateway"
	"merchant/media"
	"merchant/models"
	"merchant/validators"
)

type Controller struct {
	api gateway.Doer
}

func NewController(api gateway.Doer) *Controller {
	return &Controller{api: api}
}

func (c *Controller) Get(ctx context.Context) (models.Profile, error) {
	var p models.Profile
	err := c.api.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/merchant/profile"}, &p)
	return p, err
}

// Update saves the editable fields; the logo has its own upload.
func (c *Controller) Update(ctx context.Context, p models.Profile) (models.Profile, error) {
	if err := validators.Required("business_name", p.BusinessName); err != nil {
		return models.Profile{}, err
	}
	body := map[string]string{
		"business_name": strings.TrimSpace(p.BusinessName),
		"description":   strings.TrimSpace(p.Description),
		"address":       strings.TrimSpace(p.Address),
	}
	var saved models.Profile
	err := c.api.Do(ctx, gateway.Request{Method: http.MethodPut, Path: "/merchant/profile", Body: body}, &saved)
	return saved, err
}

// UploadLogo sends the picked image as JPEG and returns the new logo URL.
func (c *Controller) UploadLogo(ctx context.Context, image []byte) (string, error) {
	data, err := media.PrepareUpload(image, media.LogoMaxDim)
	if err != nil {
		return "", apperr.Validation("logo", "The selected image could not be read.")
	}
	var res struct {
		LogoURL string `json:"logo_url"`
	}
	form := gateway.NewForm().File("logo", "merchant_logo.jpg", "image/jpeg", data)
	if err := c.api.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "/merchant/logo", Form: form}, &res); err != nil {
		return "", err
	}
	return res.LogoURL, nil
}
