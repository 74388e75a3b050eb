// Package agents creates collection point agents for the merchant.
package agents

import (
	"context"
	"net/http"
	"strings"

	"merchant/apperr"
	"merchant/gateway"
	"merchant/models"
	"merchant/validators"
)

// Input is the add-agent form. Location comes from a Geocoder suggestion.
type Input struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Location *Location
}

type Controller struct {
	api gateway.Doer
}

func NewController(api gateway.Doer) *Controller {
	return &Controller{api: api}
}

func (c *Controller) Create(ctx context.Context, in Input) (models.Agent, error) {
	err := validators.First(
		validators.Required("agent_name", in.Name),
		validators.Required("agent_email", in.Email),
		validators.ValidateEmail(in.Email),
		validators.Required("agent_phone", in.Phone),
		validators.ValidatePhone(in.Phone),
		validators.ValidateString("agent_password", in.Password, 6, 128),
	)
	if err != nil {
		return models.Agent{}, err
	}
	if in.Location == nil {
		return models.Agent{}, apperr.Validation("location", "Please select a valid location")
	}

	agent := models.Agent{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		Password:     in.Password,
		Lat:          in.Location.Lat,
		Lng:          in.Location.Lng,
		LocationName: in.Location.Formatted,
	}
	var created models.Agent
	if err := c.api.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "/merchant/create-agent", Body: agent}, &created); err != nil {
		return models.Agent{}, err
	}
	created.Password = ""
	return created, nil
}
