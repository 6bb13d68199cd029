package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/wishsync/internal/common"
)

func (a *App) credentials() (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(userName) == "" {
		return "", nil, fmt.Errorf("username is required")
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// Register prompts for a username and password, creates the account and
// starts a session for it. Guest data is pushed to the account by the
// migrator attached to the session provider.
//
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.svc.Auth.Register(ctx, userName, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Registered and signed in as", s.UserID)
	return nil
}

// Login prompts for credentials and signs in. Failures leave the shopper in
// guest mode.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.svc.Auth.Login(ctx, userName, string(password))
	if err != nil {
		a.logger.Warn(ctx, "login failed", "user", userName, "error", err)
		return err
	}

	fmt.Fprintln(a.out, "Signed in as", s.UserID)
	return nil
}

// Logout ends the session. Data saved while signed in stays on the server;
// guest data kept locally is untouched.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	a.svc.Auth.Logout(ctx)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}
