package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	switch {
	case a.session.Loading():
		return "(restoring session)"
	case a.session.IsAuthenticated():
		if email := a.session.User().Email(); email != "" {
			return fmt.Sprintf("(%s)", email)
		}
		return "(logged in)"
	}
	return ""
}

// waitReady blocks until session restore has finished or ctx is done, so
// routing decisions see the restored user.
func (a *App) waitReady(ctx context.Context) {
	if !a.session.Loading() {
		return
	}
	a.println("Restoring previous session...")
	select {
	case <-a.session.Ready():
	case <-ctx.Done():
	}
}

// Root prints the banner and runs the REPL on the app's input.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to OrderDesk CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

// WhoAmI prints the session state.
func (a *App) WhoAmI(ctx context.Context) error {
	switch {
	case a.session.Loading():
		a.println("Restoring previous session...")
	case a.session.IsAuthenticated():
		user := a.session.User()
		if email := user.Email(); email != "" {
			a.println("Logged in as", email)
		} else {
			a.println("Logged in")
		}
		if name, ok := user["name"].(string); ok && name != "" {
			a.println("Name:", name)
		}
		if role, ok := user["role"].(string); ok && role != "" {
			a.println("Role:", role)
		}
	default:
		a.println("Not logged in")
	}
	return nil
}
