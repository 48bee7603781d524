package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Open(ctx context.Context, target string)
	Home(ctx context.Context)
	Profile(ctx context.Context)
	Login(ctx context.Context)
	Register(ctx context.Context)
	Forgot(ctx context.Context)
	Reset(ctx context.Context, token string)
	Verify(ctx context.Context, token string)
	ResendVerification(ctx context.Context)
	ShowToken(ctx context.Context)
	PrintStatus(ctx context.Context)
	Logout(ctx context.Context)
}

// runREPL starts a simple read-eval-print loop for the gophauth CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits at end of input or when the user types "exit" or
// "quit". Commands that prompt for more input read from the same reader, so
// it must not be wrapped in anything that buffers ahead.
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help               - show available commands
//	  - open | go <path>   - open a page by path
//	  - verify <token>     - verify an email address
//	  - reset <token>      - set a new password from a reset link
//	  - status             - show the session state
//	  - exit | quit        - leave the program
//
//	Not logged in:
//	  - login              - authenticate
//	  - register           - create an account
//	  - forgot             - request a password reset link
//	  - resend             - request a new verification link
//
//	Logged in:
//	  - home | profile     - open a page
//	  - token              - show the access token's claims
//	  - resend             - request a new verification link
//	  - logout             - log out
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for done := false; !done; {
		printlnFn(fmt.Sprintf("ga %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil {
			if line == "" {
				return
			}
			// last line without a trailing newline
			done = true
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: home, profile, token, resend, open <path>, verify <token>, reset <token>, status, logout, exit")
			} else {
				printlnFn("Available commands: login, register, forgot, resend, open <path>, verify <token>, reset <token>, status, exit")
			}

		case "open", "go":
			if len(args) == 0 {
				printlnFn("Usage: open <path>")
				continue
			}
			a.Open(ctx, args[0])

		case "home":
			a.Home(ctx)

		case "profile":
			a.Profile(ctx)

		case "login":
			a.Login(ctx)

		case "register":
			a.Register(ctx)

		case "forgot":
			a.Forgot(ctx)

		case "reset":
			if len(args) == 0 {
				a.Reset(ctx, "")
				continue
			}
			a.Reset(ctx, args[0])

		case "verify":
			if len(args) == 0 {
				printlnFn("Usage: verify <token>")
				continue
			}
			a.Verify(ctx, args[0])

		case "resend":
			a.ResendVerification(ctx)

		case "token":
			a.ShowToken(ctx)

		case "status":
			a.PrintStatus(ctx)

		case "logout":
			a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
