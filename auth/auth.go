// Package auth drives the login and registration screens.
package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	"merchant/apperr"
	"merchant/gateway"
	"merchant/models"
	"merchant/validators"
)

const merchantUserType = "merchant"

// Session is the part of session.Manager the auth screens change.
type Session interface {
	Login(ctx context.Context, token string) error
	Logout(ctx context.Context) error
}

type Controller struct {
	api  gateway.Doer
	sess Session
}

func NewController(api gateway.Doer, sess Session) *Controller {
	return &Controller{api: api, sess: sess}
}

// Login exchanges credentials for a token and starts a session. Accounts
// that are not merchants are refused without touching the session.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return apperr.Validation("credentials", "Please fill in all fields.")
	}

	var res models.LoginResponse
	err := c.api.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   models.Credentials{Email: email, Password: password},
		Public: true,
	}, &res)
	if err != nil {
		return err
	}
	if !res.IsMerchant {
		return apperr.Validation("account", "You must be a merchant to access this app.")
	}
	if res.Token == "" {
		return apperr.RequestFailed(http.StatusOK, "Login response did not include a token.")
	}
	if err := c.sess.Login(ctx, res.Token); err != nil {
		log.Printf("[auth] could not persist session: %v", err)
		return err
	}
	return nil
}

// Register creates a merchant account and returns the server's message.
// The merchant still has to log in afterwards.
func (c *Controller) Register(ctx context.Context, reg models.Registration) (string, error) {
	err := validators.First(
		validators.Required("name", reg.Name),
		validators.Required("email", reg.Email),
		validators.ValidateEmail(reg.Email),
		validators.ValidateString("password", reg.Password, 6, 128),
		validators.Required("business_name", reg.BusinessName),
	)
	if err != nil {
		return "", err
	}
	if reg.Phone != "" {
		if err := validators.ValidatePhone(reg.Phone); err != nil {
			return "", err
		}
	}
	reg.Email = strings.TrimSpace(reg.Email)
	reg.UserType = merchantUserType

	var res models.Message
	err = c.api.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body:   reg,
		Public: true,
	}, &res)
	if err != nil {
		return "", err
	}
	if res.Message == "" {
		res.Message = "Registration successful"
	}
	return res.Message, nil
}

// Logout ends the session locally; the backend keeps no session state.
func (c *Controller) Logout(ctx context.Context) error {
	return c.sess.Logout(ctx)
}

// UserType asks the backend who the token belongs to. The home screen uses
// it as a session probe: a 403 here ends the session like any other call.
func (c *Controller) UserType(ctx context.Context) (string, error) {
	var res struct {
		UserType string `json:"user_type"`
	}
	if err := c.api.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/get-user-type"}, &res); err != nil {
		return "", err
	}
	return res.UserType, nil
}
