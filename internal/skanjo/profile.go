package skanjo

import (
	"context"
	"net/http"
	"strings"

	"github.com/spigell/skanjo/internal/validate"
)

const updateProfilePath = "/update-profile"

// ProfileUpdate is the onboarding questionnaire sent after registration.
type ProfileUpdate struct {
	Industry           string `json:"industry"`
	CompanySize        string `json:"company_size"`
	Country            string `json:"country"`
	JobTitle           string `json:"job_title"`
	Website            string `json:"website"`
	LinkedInURL        string `json:"linkedin_url"`
	HowDidYouHear      string `json:"how_did_you_hear"`
	InterestedFeatures string `json:"interested_features"`
	MarketingOptIn     bool   `json:"marketing_opt_in"`
}

func (p ProfileUpdate) Validate() error {
	v := &validate.Validator{}
	v.Required("industry", p.Industry).
		Required("company_size", p.CompanySize).
		Required("country", p.Country).
		Required("job_title", p.JobTitle)
	if strings.TrimSpace(p.Website) != "" {
		v.URL("website", p.Website)
	}
	if strings.TrimSpace(p.LinkedInURL) != "" {
		v.URL("linkedin_url", p.LinkedInURL)
	}
	return v.Err()
}

type ProfileResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// UpdateProfile stores the questionnaire for the account owning apiKey.
// A 2xx answer with success=false is reported as an *APIError.
func (c *Client) UpdateProfile(ctx context.Context, apiKey string, update ProfileUpdate) (*ProfileResponse, error) {
	if err := (&validate.Validator{}).Required("api_key", apiKey).Err(); err != nil {
		return nil, err
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	const fallback = "profile update failed"

	var resp ProfileResponse
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     updateProfilePath,
		body:     update,
		apiKey:   apiKey,
		fallback: fallback,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if !resp.Success {
		message := strings.TrimSpace(resp.Message)
		if message == "" {
			message = fallback
		}
		return nil, &APIError{StatusCode: http.StatusOK, Message: message}
	}

	return &resp, nil
}
