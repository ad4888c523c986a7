package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Signup(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Presets(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	Batch(ctx context.Context) error
	Custom(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Download(ctx context.Context, args []string) error
	Clear(ctx context.Context) error
	Users(ctx context.Context) error
	Limit(ctx context.Context, args []string) error
	Adjust(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: signup <email>, login <email>, presets, help, exit"
	helpLoggedIn  = "Available commands: whoami, presets, upload <path>, batch, custom <prompt...>, list, download <assetId> [dir], clear, users, limit <userId> <n>, adjust <userId> <delta>, logout, exit"
)

// runREPL reads one command per line and dispatches it until EOF or
// "exit". Command errors are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ecomlens %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "signup":
			_ = a.Signup(ctx, args)

		case "login":
			_ = a.Login(ctx, args)

		case "presets":
			_ = a.Presets(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "logout", "whoami", "upload", "batch", "custom", "list", "l",
			"download", "clear", "users", "limit", "adjust":
			if !a.isLoggedIn(ctx) {
				printlnFn("Please log in first.")
				continue
			}
			dispatchLoggedIn(ctx, a, cmd, args)

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func dispatchLoggedIn(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "logout":
		_ = a.Logout(ctx)
	case "whoami":
		_ = a.WhoAmI(ctx)
	case "upload":
		_ = a.Upload(ctx, args)
	case "batch":
		_ = a.Batch(ctx)
	case "custom":
		_ = a.Custom(ctx, args)
	case "list", "l":
		_ = a.List(ctx)
	case "download":
		_ = a.Download(ctx, args)
	case "clear":
		_ = a.Clear(ctx)
	case "users":
		_ = a.Users(ctx)
	case "limit":
		_ = a.Limit(ctx, args)
	case "adjust":
		_ = a.Adjust(ctx, args)
	}
}
