package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/wishsync/internal/client/client"
	"github.com/dmitrijs2005/wishsync/internal/client/session"
)

func TestAuthService_LoginStartsSession(t *testing.T) {
	fc := newFakeClient()
	fc.loginToken = "jwt"
	sess := &fakeSession{}
	svc := NewAuthService(newDeps(t, fc, sess))

	s, err := svc.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, session.Authenticated, s.State)
	assert.True(t, sess.Authenticated())

	svc.Logout(context.Background())
	assert.False(t, sess.Authenticated())
}

func TestAuthService_LoginError(t *testing.T) {
	fc := newFakeClient()
	fc.errs["Login"] = client.ErrUnauthorized
	sess := &fakeSession{}
	svc := NewAuthService(newDeps(t, fc, sess))

	_, err := svc.Login(context.Background(), "alice", "bad")
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Contains(t, err.Error(), "login error")
	assert.False(t, sess.Authenticated())
}

func TestAuthService_RegisterBadToken(t *testing.T) {
	fc := newFakeClient()
	sess := &fakeSession{}
	svc := NewAuthService(newDeps(t, fc, sess))

	_, err := svc.Register(context.Background(), "bob", "pw")
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "session error")
}

func TestAuthService_Ping(t *testing.T) {
	fc := newFakeClient()
	svc := NewAuthService(newDeps(t, fc, &fakeSession{}))

	require.NoError(t, svc.Ping(context.Background()))
	fc.errs["Ping"] = client.ErrUnavailable
	require.ErrorIs(t, svc.Ping(context.Background()), client.ErrUnavailable)
}
