package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/wishsync/internal/auth"
	"github.com/dmitrijs2005/wishsync/internal/client/client"
	"github.com/dmitrijs2005/wishsync/internal/client/repositories/keyvalue"
	"github.com/dmitrijs2005/wishsync/internal/client/storage"
	"github.com/dmitrijs2005/wishsync/internal/common"
)

func openStore(t *testing.T, path string) *storage.Adapter {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.New(keyvalue.NewSQLiteRepository(db))
}

func token(t *testing.T, uid string, ttl time.Duration) string {
	t.Helper()
	tok, err := auth.GenerateToken(uid, []byte("test-secret"), ttl)
	require.NoError(t, err)
	return tok
}

type transitions struct {
	mu  sync.Mutex
	got [][2]State
}

func (tr *transitions) listen(_ context.Context, prev, next Session) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.got = append(tr.got, [2]State{prev.State, next.State})
}

func (tr *transitions) list() [][2]State {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([][2]State(nil), tr.got...)
}

func TestProvider_SignInSignOutNotifies(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "s.db"))
	p := NewProvider(store)
	ctx := context.Background()
	tr := &transitions{}
	p.Subscribe(tr.listen)

	assert.False(t, p.Authenticated())
	assert.Equal(t, "", p.Token())

	tok := token(t, "u1", time.Hour)
	s, err := p.SignIn(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, Authenticated, s.State)
	assert.Equal(t, "u1", p.UserID())
	assert.Equal(t, tok, p.Token())
	assert.Equal(t, tok, store.Get(ctx, storage.KeySessionToken, nil))

	// same token again is not a change
	_, err = p.SignIn(ctx, tok)
	require.NoError(t, err)

	p.SignOut(ctx)
	assert.False(t, p.Authenticated())
	assert.Nil(t, store.Get(ctx, storage.KeySessionToken, nil))

	assert.Equal(t, [][2]State{{Guest, Authenticated}, {Authenticated, Guest}}, tr.list())
}

func TestProvider_Unsubscribe(t *testing.T) {
	p := NewProvider(storage.Unavailable())
	tr := &transitions{}
	unsubscribe := p.Subscribe(tr.listen)
	unsubscribe()
	unsubscribe()

	_, err := p.SignIn(context.Background(), token(t, "u1", time.Hour))
	require.NoError(t, err)
	assert.Empty(t, tr.list())
}

func TestProvider_SubscribersCalledInOrder(t *testing.T) {
	p := NewProvider(storage.Unavailable())
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		p.Subscribe(func(context.Context, Session, Session) { order = append(order, i) })
	}

	_, err := p.SignIn(context.Background(), token(t, "u1", time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestProvider_RejectsBadTokens(t *testing.T) {
	p := NewProvider(storage.Unavailable())
	ctx := context.Background()

	_, err := p.SignIn(ctx, "garbage")
	require.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = p.SignIn(ctx, token(t, "u1", -time.Minute))
	require.ErrorIs(t, err, common.ErrTokenExpired)

	assert.False(t, p.Authenticated())
}

func TestProvider_ExpiryReadsAsGuest(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	p := NewProvider(storage.Unavailable(), WithClock(func() time.Time { return clock() }))

	_, err := p.SignIn(context.Background(), token(t, "u1", time.Hour))
	require.NoError(t, err)
	require.True(t, p.Authenticated())

	clock = func() time.Time { return now.Add(2 * time.Hour) }
	assert.False(t, p.Authenticated())
	assert.Equal(t, "", p.Token())
}

func TestProvider_ExpiryNotifiesOnce(t *testing.T) {
	var mu sync.Mutex
	now := time.Now()
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	p := NewProvider(storage.Unavailable(), WithClock(clock))

	_, err := p.SignIn(context.Background(), token(t, "u1", time.Hour))
	require.NoError(t, err)

	var got []Session
	p.Subscribe(func(_ context.Context, prev, next Session) {
		got = append(got, prev, next)
	})

	mu.Lock()
	now = now.Add(2 * time.Hour)
	mu.Unlock()

	assert.Equal(t, "", p.UserID())
	assert.False(t, p.Authenticated())

	require.Len(t, got, 2)
	assert.Equal(t, "u1", got[0].UserID)
	assert.Equal(t, Authenticated, got[0].State)
	assert.Equal(t, Session{State: Guest}, got[1])
}

func TestProvider_Load(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "s.db"))
	ctx := context.Background()

	require.True(t, store.Set(ctx, storage.KeySessionToken, token(t, "u9", time.Hour)))
	p := NewProvider(store)
	s := p.Load(ctx)
	assert.Equal(t, Authenticated, s.State)
	assert.Equal(t, "u9", s.UserID)

	require.True(t, store.Set(ctx, storage.KeySessionToken, "not-a-jwt"))
	assert.Equal(t, Guest, p.Load(ctx).State)
}

func TestWatcher_ReloadsOnForeignWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	mine := openStore(t, path)
	theirs := openStore(t, path)

	p := NewProvider(mine)
	tr := &transitions{}
	p.Subscribe(tr.listen)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	w := NewWatcher(p, path, nil)
	w.debounce = 10 * time.Millisecond
	go func() { done <- w.Run(ctx) }()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.True(t, theirs.Set(context.Background(), storage.KeySessionToken, token(t, "u7", time.Hour)))

	require.Eventually(t, func() bool { return p.UserID() == "u7" }, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, [][2]State{{Guest, Authenticated}}, tr.list())

	cancel()
	require.NoError(t, <-done)
}
