package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/dmitrijs2005/aichef/internal/client/models"
	"github.com/go-resty/resty/v2"
)

// HTTPClient talks to the remote authority over HTTP/JSON. The refresh
// credential is an HTTP-only cookie, so the client carries a cookie jar and
// never handles that credential directly.
type HTTPClient struct {
	rc *resty.Client
}

// NewHTTPClient builds a client for the authority at baseURL. Every request
// is bounded by timeout so a slow backend cannot stall the caller forever.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetCookieJar(jar)

	return &HTTPClient{rc: rc}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User        models.User `json:"user"`
	AccessToken string      `json:"accessToken"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var result loginResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(loginRequest{Email: email, Password: password}).
		SetResult(&result).
		Post("/api/auth/login")
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, "", ErrUnauthorized
	}
	if !resp.IsSuccess() {
		return nil, "", fmt.Errorf("%w: login returned %d", ErrUnavailable, resp.StatusCode())
	}
	return &result.User, result.AccessToken, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	resp, err := c.rc.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&user).
		Get("/api/auth/me")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: me returned %d", ErrUnavailable, resp.StatusCode())
	}
	return &user, nil
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

func (c *HTTPClient) Refresh(ctx context.Context) (string, error) {
	var result refreshResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&result).
		Post("/api/auth/refresh")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("%w: refresh returned %d", ErrUnavailable, resp.StatusCode())
	}
	return result.AccessToken, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	resp, err := c.rc.R().
		SetContext(ctx).
		Post("/api/auth/logout")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: logout returned %d", ErrUnavailable, resp.StatusCode())
	}
	return nil
}

func (c *HTTPClient) HealthProfile(ctx context.Context, userID int64) (*models.HealthProfile, error) {
	var hp models.HealthProfile
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&hp).
		Get(fmt.Sprintf("/api/health-profile/%d", userID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: health profile returned %d", ErrUnavailable, resp.StatusCode())
	}
	return &hp, nil
}

func (c *HTTPClient) SaveHealthProfile(ctx context.Context, userID int64, hp *models.HealthProfile) error {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(hp).
		Post(fmt.Sprintf("/api/health-profile/%d", userID))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: health profile save returned %d", ErrUnavailable, resp.StatusCode())
	}
	return nil
}
