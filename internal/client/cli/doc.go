// Package cli provides the interactive wishsync command-line client.
//
// It is a thin presentation layer over the state services: every command maps
// to one service call and prints the result. The same commands work for
// guests (local storage) and signed-in shoppers (remote API). A background
// watcher pings the backend and shows the connectivity mode in the prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
