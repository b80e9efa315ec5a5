package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/orderdesk/internal/client/models"
	"github.com/dmitrijs2005/orderdesk/internal/client/services"
	"github.com/dmitrijs2005/orderdesk/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	getLines      = GetLines
)

// Register prompts for name, email, password and role and creates a new
// account. It does not log the user in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	role, err := getSimpleText(a.reader, "Role (user/admin) [user]", a.out)
	if err != nil {
		return err
	}

	msg, err := a.authService.Register(ctx, models.Registration{
		Name:     name,
		Email:    email,
		Password: string(password),
		Role:     models.Role(strings.ToLower(role)),
	})
	if err != nil {
		a.println(describeError(err))
		return err
	}

	a.println(msg)
	return nil
}

// Login prompts for credentials and starts a session. A session that could
// not be saved stays active for this run only.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Login(ctx, models.Credentials{Email: email, Password: string(password)})
	if err != nil {
		if errors.Is(err, services.ErrSessionNotSaved) && user != nil {
			a.log.Warn(ctx, "session not persisted", "error", err)
			a.println("Logged in, but the session could not be saved; you will need to log in again next time.")
			return nil
		}
		a.println(describeError(err))
		return err
	}

	if e := user.Email(); e != "" {
		a.println("Logged in as", e)
	} else {
		a.println("Logged in")
	}
	return nil
}

// ForgotPassword asks the server to send a password reset link.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	msg, err := a.authService.ResetPassword(ctx, models.PasswordReset{Email: email})
	if err != nil {
		a.println(describeError(err))
		return err
	}

	a.println(msg)
	return nil
}

// Logout ends the session and forgets the saved credentials.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout", "error", err)
		a.println("Logged out, but saved credentials could not be removed.")
		return err
	}
	a.println("Logged out")
	return nil
}
