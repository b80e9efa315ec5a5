// Package services contains application services for the OrderDesk client.
// This file defines the authentication service: login, signup, password
// reset and logout on top of the API client and the session manager.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/orderdesk/internal/client/client"
	"github.com/dmitrijs2005/orderdesk/internal/client/forms"
	"github.com/dmitrijs2005/orderdesk/internal/client/models"
	"github.com/dmitrijs2005/orderdesk/internal/client/session"
	"github.com/dmitrijs2005/orderdesk/internal/logging"
)

const (
	registerFallback = "Account created. You can log in now."
	resetFallback    = "If an account with that email exists, a password reset link has been sent."
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: validate, authenticate against the server and start a session.
//   - Register: validate and create a new account. It does not log in.
//   - ResetPassword: validate and ask the server to send a reset link.
//   - Logout: end the session and forget the persisted credentials.
//   - Close: release underlying client resources.
//
// Form errors are *forms.ValidationError and are returned before any
// network call. All methods honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (models.User, error)
	Register(ctx context.Context, reg models.Registration) (string, error)
	ResetPassword(ctx context.Context, req models.PasswordReset) (string, error)
	Logout(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session *session.Manager
	log     logging.Logger
}

func NewAuthService(c client.Client, s *session.Manager, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: c, session: s, log: log.With("service", "auth")}
}

// Login authenticates and makes the returned user current. When the session
// is active but could not be persisted the user is returned together with an
// error matching ErrSessionNotSaved.
func (a *authService) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := forms.Validate(creds); err != nil {
		return nil, err
	}

	resp, err := a.client.Login(ctx, creds)
	if err != nil {
		a.log.Debug(ctx, "login failed", "email", creds.Email, "error", err)
		return nil, fmt.Errorf("login error: %w", err)
	}

	user := resp.SessionUser()
	if err := a.session.Login(ctx, user); err != nil {
		if errors.Is(err, session.ErrNoToken) {
			return nil, fmt.Errorf("login error: %w", client.ErrMalformedResponse)
		}
		return user, fmt.Errorf("%w: %v", ErrSessionNotSaved, err)
	}
	return user, nil
}

func (a *authService) Register(ctx context.Context, reg models.Registration) (string, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Role == "" {
		reg.Role = models.RoleUser
	}
	if err := forms.Validate(reg); err != nil {
		return "", err
	}

	msg, err := a.client.Register(ctx, reg)
	if err != nil {
		return "", fmt.Errorf("register error: %w", err)
	}
	if msg == "" {
		msg = registerFallback
	}
	a.log.Info(ctx, "account created", "email", reg.Email, "role", reg.Role)
	return msg, nil
}

func (a *authService) ResetPassword(ctx context.Context, req models.PasswordReset) (string, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := forms.Validate(req); err != nil {
		return "", err
	}

	msg, err := a.client.RequestPasswordReset(ctx, req)
	if err != nil {
		return "", fmt.Errorf("password reset error: %w", err)
	}
	if msg == "" {
		msg = resetFallback
	}
	return msg, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
