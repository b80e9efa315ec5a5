package client

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	UsersEndpoint  = "/users"
	OrdersEndpoint = "/orders"

	LoginPath          = UsersEndpoint + "/login"
	RegisterPath       = UsersEndpoint + "/register"
	ForgotPasswordPath = UsersEndpoint + "/forgot-password"
	MePath             = UsersEndpoint + "/me"
)

var ErrInvalidBaseURL = errors.New("invalid API base URL")

// Endpoints builds request URLs from the configured API base address.
type Endpoints struct {
	base string
}

// NewEndpoints validates baseURL (absolute http or https URL with a host)
// and strips any trailing slash.
func NewEndpoints(baseURL string) (Endpoints, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return Endpoints{}, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Endpoints{}, fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidBaseURL, baseURL)
	}
	if u.Host == "" {
		return Endpoints{}, fmt.Errorf("%w: missing host in %q", ErrInvalidBaseURL, baseURL)
	}
	return Endpoints{base: strings.TrimRight(u.String(), "/")}, nil
}

// URL joins the base address and an endpoint path.
func (e Endpoints) URL(endpoint string) string {
	return e.base + endpoint
}
