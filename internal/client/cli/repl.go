package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Forgot(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Feed(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	Page(ctx context.Context, args []string) error
	Read(ctx context.Context, args []string) error
	Write(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Bookmark(ctx context.Context, args []string) error
	Bookmarks(ctx context.Context) error
	Mine(ctx context.Context) error
	Comment(ctx context.Context, args []string) error
	Uncomment(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the inkfeed CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("inkfeed %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: feed, search <q>, page <n>, read <id>, write, delete <id>, mark <id>, marks, mine, comment <id>, uncomment <id> <commentId>, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, forgot, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "forgot":
			_ = a.Forgot(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "f", "feed":
			_ = a.Feed(ctx)

		case "search":
			_ = a.Search(ctx, args)

		case "page":
			_ = a.Page(ctx, args)

		case "read":
			_ = a.Read(ctx, args)

		case "write":
			_ = a.Write(ctx)

		case "delete":
			_ = a.Delete(ctx, args)

		case "mark":
			_ = a.Bookmark(ctx, args)

		case "marks":
			_ = a.Bookmarks(ctx)

		case "mine":
			_ = a.Mine(ctx)

		case "comment":
			_ = a.Comment(ctx, args)

		case "uncomment":
			_ = a.Uncomment(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func (a *App) getStatus() string {
	sess := a.sessions.Current()
	if !sess.Authenticated() {
		return "(signed out)"
	}
	return fmt.Sprintf("(%s)", sess.Identity.Email)
}

func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to inkfeed (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
