package skanjo

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/spigell/skanjo/internal/validate"
)

const (
	addClientPath        = "/add-client"
	createFeatureKeyPath = "/create-feature-key"
)

// APIKeyRequest asks the backend to issue an API key for a client email.
// The admin credentials are sent as HTTP Basic auth and never in the body.
type APIKeyRequest struct {
	Email         string
	AdminUsername string
	AdminPassword string
}

type APIKeyResponse struct {
	APIKey  string `json:"api_key"`
	Message string `json:"message,omitempty"`
}

type FeatureKeyResponse struct {
	FeatureKey string `json:"feature_key"`
	Message    string `json:"message,omitempty"`
}

// CreateAPIKey issues an API key for req.Email. The call is admin-gated.
func (c *Client) CreateAPIKey(ctx context.Context, req APIKeyRequest) (*APIKeyResponse, error) {
	v := &validate.Validator{}
	v.Email("email", req.Email).
		Required("admin_username", req.AdminUsername).
		Required("admin_password", req.AdminPassword)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var resp APIKeyResponse
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     addClientPath,
		body:     map[string]string{"client_email": strings.TrimSpace(req.Email)},
		basic:    &basicAuth{username: req.AdminUsername, password: req.AdminPassword},
		fallback: "API key creation failed",
	}, &resp)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(resp.APIKey) == "" {
		return nil, errors.New("backend returned an empty api key")
	}

	return &resp, nil
}

// CreateFeatureKey issues a key limited to scopes under the given plan.
func (c *Client) CreateFeatureKey(ctx context.Context, apiKey, plan string, scopes []string) (*FeatureKeyResponse, error) {
	v := &validate.Validator{}
	v.Required("api_key", apiKey).
		Required("plan", plan).
		Custom("scopes", len(cleanScopes(scopes)) == 0, "At least one scope is required")
	if err := v.Err(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("plan", strings.TrimSpace(plan))

	var resp FeatureKeyResponse
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     createFeatureKeyPath,
		query:    q,
		body:     map[string][]string{"scopes": cleanScopes(scopes)},
		apiKey:   apiKey,
		fallback: "feature key creation failed",
	}, &resp)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(resp.FeatureKey) == "" {
		return nil, errors.New("backend returned an empty feature key")
	}

	return &resp, nil
}

func cleanScopes(scopes []string) []string {
	cleaned := make([]string, 0, len(scopes))
	seen := make(map[string]struct{}, len(scopes))
	for _, s := range scopes {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		cleaned = append(cleaned, s)
	}
	return cleaned
}
