package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/wishsync/internal/client/session"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the backend and start a session.
//   - Register: create an account and start a session.
//   - Logout: end the session; guest data stays local.
//   - Ping: check backend liveness (best effort, short deadline).
type AuthService interface {
	Login(ctx context.Context, username, password string) (session.Session, error)
	Register(ctx context.Context, username, password string) (session.Session, error)
	Logout(ctx context.Context)
	Ping(ctx context.Context) error
}

type authService struct {
	d Deps
}

// NewAuthService constructs an AuthService bound to the client and session
// of d.
func NewAuthService(d Deps) AuthService {
	return &authService{d: d.withDefaults()}
}

// Login exchanges credentials for a token and signs the session in.
// Subscribers of the session, such as the guest migrator, run before it
// returns.
func (a *authService) Login(ctx context.Context, username, password string) (session.Session, error) {
	tok, err := a.d.Client.Login(ctx, username, password)
	if err != nil {
		return session.Session{}, fmt.Errorf("login error: %w", err)
	}
	return a.start(ctx, tok)
}

func (a *authService) Register(ctx context.Context, username, password string) (session.Session, error) {
	tok, err := a.d.Client.Register(ctx, username, password)
	if err != nil {
		return session.Session{}, fmt.Errorf("register error: %w", err)
	}
	return a.start(ctx, tok)
}

func (a *authService) start(ctx context.Context, tok string) (session.Session, error) {
	s, err := a.d.Session.SignIn(ctx, tok)
	if err != nil {
		return session.Session{}, fmt.Errorf("session error: %w", err)
	}
	return s, nil
}

// Logout signs out and drops every cached remote read.
func (a *authService) Logout(ctx context.Context) {
	a.d.Session.SignOut(ctx)
	a.d.Cache.Reset()
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.d.Client.Ping(ctx)
}
