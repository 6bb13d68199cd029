// Package session tracks whether the shopper is a guest or signed in and
// notifies subscribers of every change.
//
// The bearer token is persisted in local storage so that other processes
// sharing the store observe sign-ins and sign-outs; see Watcher.
package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/wishsync/internal/auth"
	"github.com/dmitrijs2005/wishsync/internal/client/storage"
	"github.com/dmitrijs2005/wishsync/internal/common"
	"github.com/dmitrijs2005/wishsync/internal/logging"
)

type State int

const (
	Guest State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "guest"
}

// Session is an immutable snapshot of the session state.
type Session struct {
	State     State
	UserID    string
	Token     string
	ExpiresAt time.Time
}

func (s Session) expired(now time.Time) bool {
	return s.State == Authenticated && !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s Session) same(o Session) bool {
	return s.State == o.State && s.UserID == o.UserID && s.Token == o.Token
}

// Listener is called after every state change, synchronously and in
// subscription order.
type Listener func(ctx context.Context, prev, next Session)

type Provider struct {
	mu     sync.RWMutex
	cur    Session
	subs   map[int]Listener
	nextID int

	store  *storage.Adapter
	now    func() time.Time
	logger logging.Logger
}

type Option func(*Provider)

func WithLogger(l logging.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

func NewProvider(store *storage.Adapter, opts ...Option) *Provider {
	p := &Provider{
		subs:   make(map[int]Listener),
		store:  store,
		now:    time.Now,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subscribe registers fn and returns a function removing it.
func (p *Provider) Subscribe(fn Listener) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
		})
	}
}

// Current returns the session. The first read after the token expires
// switches to the guest state and notifies subscribers.
func (p *Provider) Current() Session {
	p.mu.RLock()
	s := p.cur
	p.mu.RUnlock()

	if s.expired(p.now()) {
		p.logger.Info(context.Background(), "session token expired", "user", s.UserID)
		guest := Session{State: Guest}
		p.apply(context.Background(), guest)
		return guest
	}
	return s
}

func (p *Provider) Authenticated() bool {
	return p.Current().State == Authenticated
}

// Token returns the bearer token, or "" for guests.
func (p *Provider) Token() string {
	return p.Current().Token
}

// UserID returns the signed-in user id, or "" for guests.
func (p *Provider) UserID() string {
	return p.Current().UserID
}

// SignIn switches to the authenticated state for token and persists it.
func (p *Provider) SignIn(ctx context.Context, token string) (Session, error) {
	s, err := p.fromToken(token)
	if err != nil {
		return Session{}, err
	}
	if s.State != Authenticated {
		return Session{}, common.ErrTokenExpired
	}
	p.store.Set(ctx, storage.KeySessionToken, token)
	p.apply(ctx, s)
	return s, nil
}

// SignOut forgets the token and switches to the guest state.
func (p *Provider) SignOut(ctx context.Context) {
	p.store.Remove(ctx, storage.KeySessionToken)
	p.apply(ctx, Session{State: Guest})
}

// Load re-reads the persisted token and applies it. Missing, malformed and
// expired tokens yield the guest state.
func (p *Provider) Load(ctx context.Context) Session {
	var s Session
	tok, _ := p.store.Get(ctx, storage.KeySessionToken, "").(string)
	if tok != "" {
		var err error
		s, err = p.fromToken(tok)
		if err != nil {
			p.logger.Warn(ctx, "ignoring stored session token", "error", err)
			s = Session{State: Guest}
		}
	}
	p.apply(ctx, s)
	return s
}

func (p *Provider) fromToken(token string) (Session, error) {
	claims, err := auth.ParseUnverified(token)
	if err != nil {
		return Session{}, err
	}
	s := Session{State: Authenticated, UserID: claims.UserID, Token: token}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
		if !p.now().Before(s.ExpiresAt) {
			return Session{State: Guest}, nil
		}
	}
	return s, nil
}

func (p *Provider) apply(ctx context.Context, next Session) {
	p.mu.Lock()
	prev := p.cur
	if prev.same(next) {
		p.cur = next
		p.mu.Unlock()
		return
	}
	p.cur = next

	ids := make([]int, 0, len(p.subs))
	for id := range p.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, p.subs[id])
	}
	p.mu.Unlock()

	p.logger.Info(ctx, "session changed", "from", prev.State.String(), "to", next.State.String(), "user", next.UserID)
	for _, fn := range listeners {
		fn(ctx, prev, next)
	}
}
