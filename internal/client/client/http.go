package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/dmitrijs2005/orderdesk/internal/client/models"
	"github.com/dmitrijs2005/orderdesk/internal/common"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// HTTPClient talks to the OrderDesk REST API.
type HTTPClient struct {
	endpoints Endpoints
	http      *http.Client
	transport *bearerTransport
}

// apiResponse is the common envelope of API answers.
type apiResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

// NewHTTPClient builds a client for baseURL on top of hc (its transport is
// wrapped to inject bearer tokens; hc itself is not modified).
func NewHTTPClient(baseURL string, hc *http.Client) (*HTTPClient, error) {
	endpoints, err := NewEndpoints(baseURL)
	if err != nil {
		return nil, err
	}
	if hc == nil {
		hc = &http.Client{}
	}

	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	t := &bearerTransport{base: base}

	wrapped := *hc
	wrapped.Transport = t

	return &HTTPClient{endpoints: endpoints, http: &wrapped, transport: t}, nil
}

// SetTokenSource installs the source of the bearer token for authenticated
// calls.
func (c *HTTPClient) SetTokenSource(ts TokenSource) {
	c.transport.setTokenSource(ts)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	var resp apiResponse
	if err := c.doJSON(ctx, http.MethodPost, LoginPath, creds, &resp, "Invalid credentials."); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: login response has no token", ErrMalformedResponse)
	}
	return &models.AuthResponse{Message: resp.Message, Token: resp.Token, User: resp.User}, nil
}

func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) (string, error) {
	if reg.Role == "" {
		reg.Role = models.RoleUser
	}
	var resp apiResponse
	if err := c.doJSON(ctx, http.MethodPost, RegisterPath, reg, &resp, "Failed to create account."); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *HTTPClient) RequestPasswordReset(ctx context.Context, req models.PasswordReset) (string, error) {
	var resp apiResponse
	if err := c.doJSON(ctx, http.MethodPost, ForgotPasswordPath, req, &resp, "Failed to request password reset."); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Me fetches the current user for token. The API may answer either
// {"user": {...}} or the bare user object.
func (c *HTTPClient) Me(ctx context.Context, token string) (models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoints.URL(MePath), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	body, err := c.do(req, "Session is no longer valid.")
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var user models.User
	if nested, ok := raw["user"]; ok && len(nested) > 0 && nested[0] == '{' {
		err = json.Unmarshal(nested, &user)
	} else {
		err = json.Unmarshal(body, &user)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return user, nil
}

// SubmitOrder sends the order as one multipart/form-data request with the
// text fields followed by one "images" part per image. order.Price is sent
// as given; callers normalise it first.
func (c *HTTPClient) SubmitOrder(ctx context.Context, order models.Order, images []models.OrderImage, requestID string) (string, error) {
	body, contentType, err := encodeOrder(order, images)
	if err != nil {
		return "", fmt.Errorf("encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoints.URL(OrdersEndpoint), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if requestID != "" {
		req.Header.Set(common.RequestIDHeaderName, requestID)
	}

	respBody, err := c.do(req, "Failed to submit order.")
	if err != nil {
		return "", err
	}

	// the order is accepted on any 2xx; the message is optional, so an
	// unparsable body yields an empty one rather than an error
	var resp apiResponse
	_ = json.Unmarshal(respBody, &resp)
	return resp.Message, nil
}

func encodeOrder(order models.Order, images []models.OrderImage) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"name", order.Name},
		{"address", order.Address},
		{"details", order.Details},
		{"phoneNumber", order.PhoneNumber},
		{"price", order.Price},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	for _, img := range images {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
			"name":     "images",
			"filename": img.FileName,
		}))
		h.Set("Content-Type", img.ContentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in any, out *apiResponse, fallback string) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoints.URL(path), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, fallback)
	if err != nil {
		return err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// do sends req and returns the body of a 2xx response. Other statuses become
// *APIError; transport failures wrap ErrUnavailable. Cancellation is
// returned unchanged so callers can tell it apart.
func (c *HTTPClient) do(req *http.Request, fallback string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, mapStatus(resp.StatusCode, body, fallback)
	}
	return body, nil
}

func mapStatus(status int, body []byte, fallback string) error {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Message == "" {
		resp.Message = fallback
	}
	return &APIError{StatusCode: status, Message: resp.Message}
}
