package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var errUnknownCommand = errors.New("unknown command")

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Exec(ctx context.Context, cmd string, args []string) error
}

const (
	guestHelp = "Available commands: login, register, stores, savestore, togglestore, favorites, fav, unfav, " +
		"collections, newcollection, rmcollection, items, additem, rmitem, history, search, prefs, setlang, setcurrency, whoami, exit"
	authHelp = "Available commands: stores, savestore, togglestore, favorites, fav, unfav, " +
		"collections, newcollection, rmcollection, items, additem, rmitem, share, public, private, " +
		"history, search, prefs, setlang, setcurrency, whoami, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the wishsync CLI.
//
// It reads a line from r, parses the first token as the command, and
// dispatches it with the remaining tokens to a.Exec. Errors returned by a
// command are printed and the loop continues. The loop exits on EOF, on
// context cancellation or when the user types "exit" or "quit".
//
// The command set is the same for guests and signed-in shoppers, except for
// the wishlist sharing commands (share, public, private) which need a session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("ws %s> ", statusFn()))

		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(authHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if err := a.Exec(ctx, cmd, args); err != nil {
				if errors.Is(err, errUnknownCommand) {
					printlnFn("Unknown command:", cmd)
				} else {
					printlnFn("error:", err.Error())
				}
			}
		}
	}
}
