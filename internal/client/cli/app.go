package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/wishsync/internal/client/config"
	"github.com/dmitrijs2005/wishsync/internal/client/services"
	"github.com/dmitrijs2005/wishsync/internal/client/session"
	"github.com/dmitrijs2005/wishsync/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// SessionView exposes the current session for the prompt and whoami.
type SessionView interface {
	Current() session.Session
}

type App struct {
	config  *config.Config
	svc     *services.Services
	session SessionView
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer

	mu   sync.Mutex
	mode Mode
}

// NewApp wires the REPL to the state services. Input is read from os.Stdin and
// output written to os.Stdout.
func NewApp(c *config.Config, svc *services.Services, sv SessionView, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &App{
		config:  c,
		svc:     svc,
		session: sv,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

// Run starts the connectivity watcher and blocks in the REPL until the user
// exits, input ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to wishsync (type 'help' for commands)")

	interval := 3 * time.Second
	if a.config != nil && a.config.OnlineCheckInterval > 0 {
		interval = a.config.OnlineCheckInterval
	}
	go a.StartOnlineStatusWatcher(ctx, interval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.current().State == session.Authenticated
}

func (a *App) current() session.Session {
	if a.session == nil {
		return session.Session{State: session.Guest}
	}
	return a.session.Current()
}

func (a *App) getStatus() string {
	s := "guest"
	if cur := a.current(); cur.State == session.Authenticated {
		s = cur.UserID
	}
	if m := a.Mode(); m != ModeUnknown {
		s = s + " " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}

// StartOnlineStatusWatcher pings the backend every interval and flips the
// connectivity mode on change. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	if err := a.svc.Auth.Ping(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
