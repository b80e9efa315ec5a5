package client

import (
	"context"

	"github.com/dmitrijs2005/orderdesk/internal/client/models"
)

// Client is the OrderDesk API contract.
type Client interface {
	Close() error
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	Register(ctx context.Context, reg models.Registration) (string, error)
	RequestPasswordReset(ctx context.Context, req models.PasswordReset) (string, error)
	Me(ctx context.Context, token string) (models.User, error)
	SubmitOrder(ctx context.Context, order models.Order, images []models.OrderImage, requestID string) (string, error)
}

// TokenSource supplies the current access token; "" means anonymous.
type TokenSource interface {
	Token() string
}
