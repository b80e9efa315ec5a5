package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printFn is a test seam for the prompt. In tests, replace it with a stub.
var printFn = fmt.Print

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	waitReady(ctx context.Context)
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	Order(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
	println(args ...any)
}

// runREPL starts a simple read–eval–print loop for the OrderDesk CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help                 show available commands
//	  - register | signup    create an account
//	  - login                authenticate
//	  - forgot               request a password reset link
//	  - whoami | status      show session state
//	  - exit | quit          leave the program
//
//	Logged in:
//	  - help                 show available commands
//	  - order                fill in and submit an order
//	  - whoami | status      show session state
//	  - logout               log out
//	  - exit | quit          leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		status := statusFn()
		if status != "" {
			status += " "
		}
		printFn(fmt.Sprintf("od %s> ", status))

		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			a.waitReady(ctx)
			if a.isLoggedIn() {
				a.println("Available commands: order, whoami, logout, exit")
			} else {
				a.println("Available commands: login, register, forgot, whoami, exit")
			}

		case "register", "signup":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "forgot":
			_ = a.ForgotPassword(ctx)

		case "order":
			_ = a.Order(ctx)

		case "whoami", "status":
			_ = a.WhoAmI(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			a.println("Bye!")
			return

		default:
			a.println("Unknown command:", cmd)
		}
	}
}
