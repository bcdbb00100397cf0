package skanjo

import (
	"context"
	"net/http"

	"github.com/spigell/skanjo/internal/validate"
)

const (
	registerPath = "/register"
	loginPath    = "/login"

	minPhoneLength    = 10
	minPasswordLength = 6
)

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
	Position    string `json:"position"`
	Password    string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	v := &validate.Validator{}
	v.Required("name", r.Name).
		Email("email", r.Email).
		MinLen("phone", r.Phone, minPhoneLength).
		Required("company_name", r.CompanyName).
		Required("position", r.Position).
		MinLen("password", r.Password, minPasswordLength)
	return v.Err()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	v := &validate.Validator{}
	v.Email("email", r.Email).Required("password", r.Password)
	return v.Err()
}

// RegisterUser creates an account and returns its Identity.
func (c *Client) RegisterUser(ctx context.Context, req RegisterRequest) (*Identity, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var identity Identity
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     registerPath,
		body:     req,
		fallback: "registration failed",
	}, &identity)
	if err != nil {
		return nil, err
	}

	return &identity, nil
}

// LoginUser exchanges credentials for the account's Identity.
func (c *Client) LoginUser(ctx context.Context, req LoginRequest) (*Identity, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var identity Identity
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     loginPath,
		body:     req,
		fallback: "login failed",
	}, &identity)
	if err != nil {
		return nil, err
	}

	return &identity, nil
}
