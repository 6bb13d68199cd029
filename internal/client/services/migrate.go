package services

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/dmitrijs2005/wishsync/internal/client/models"
	"github.com/dmitrijs2005/wishsync/internal/client/normalize"
	"github.com/dmitrijs2005/wishsync/internal/client/session"
	"github.com/dmitrijs2005/wishsync/internal/client/storage"
)

// GuestMigrator pushes the data a guest collected locally to the account
// the guest signs in to.
//
// Records are first marked PendingSync in storage, then created remotely
// with idempotent calls. Each confirmed record is removed from the local
// copy; the others stay pending and are retried on the next sign-in.
type GuestMigrator struct {
	d Deps
}

func NewGuestMigrator(d Deps) *GuestMigrator {
	return &GuestMigrator{d: d.withDefaults()}
}

// MigrationReport counts the records confirmed by the backend and those
// left pending.
type MigrationReport struct {
	Stores, Favorites, Collections, Items int
	Pending                               int
}

// Subscriber is implemented by session.Provider.
type Subscriber interface {
	Subscribe(fn session.Listener) func()
}

// Attach runs Migrate on every guest to authenticated transition of p and
// returns a function detaching it.
func (m *GuestMigrator) Attach(p Subscriber) func() {
	return p.Subscribe(func(ctx context.Context, prev, next session.Session) {
		if prev.State != session.Guest || next.State != session.Authenticated {
			return
		}
		if _, err := m.Migrate(ctx); err != nil {
			m.d.Logger.Warn(ctx, "guest data migration incomplete", "error", err)
		}
	})
}

// Migrate pushes every pending local record and resets the query cache.
func (m *GuestMigrator) Migrate(ctx context.Context) (MigrationReport, error) {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()

	var rep MigrationReport
	err := multierr.Combine(
		m.migrateStores(ctx, &rep),
		m.migrateFavorites(ctx, &rep),
		m.migrateCollections(ctx, &rep),
	)
	m.d.Cache.Reset()

	m.d.Logger.Info(ctx, "guest data migrated",
		"stores", rep.Stores, "favorites", rep.Favorites,
		"collections", rep.Collections, "items", rep.Items, "pending", rep.Pending)
	return rep, err
}

func (m *GuestMigrator) migrateStores(ctx context.Context, rep *MigrationReport) error {
	list := loadList[models.SavedStore](ctx, m.d, storage.KeySavedStores)
	if len(list) == 0 {
		return nil
	}
	for i := range list {
		list[i].PendingSync = true
	}
	saveList(ctx, m.d, storage.KeySavedStores, list)

	var errs error
	pending := list[:0]
	for _, s := range list {
		if err := m.d.Client.SaveStore(ctx, s.Store()); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("store %s: %w", s.ID, err))
			pending = append(pending, s)
			continue
		}
		rep.Stores++
	}
	rep.Pending += len(pending)
	persistPending(ctx, m.d, storage.KeySavedStores, pending)
	return errs
}

func (m *GuestMigrator) migrateFavorites(ctx context.Context, rep *MigrationReport) error {
	list := loadList[models.FavoriteProduct](ctx, m.d, storage.KeyFavorites)
	if len(list) == 0 {
		return nil
	}
	for i := range list {
		list[i].PendingSync = true
	}
	saveList(ctx, m.d, storage.KeyFavorites, list)

	var errs error
	pending := list[:0]
	for _, f := range list {
		if !normalize.ValidateFavoriteProduct(f) {
			m.d.Logger.Warn(ctx, "dropping invalid local favorite", "name", f.Name)
			continue
		}
		if err := m.d.Client.AddFavorite(ctx, f); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("favorite %s: %w", f.ID, err))
			pending = append(pending, f)
			continue
		}
		rep.Favorites++
	}
	rep.Pending += len(pending)
	persistPending(ctx, m.d, storage.KeyFavorites, pending)
	return errs
}

func (m *GuestMigrator) migrateCollections(ctx context.Context, rep *MigrationReport) error {
	list := loadList[models.Collection](ctx, m.d, storage.KeyCollections)
	if len(list) == 0 {
		return nil
	}
	for i := range list {
		list[i].PendingSync = true
	}
	saveList(ctx, m.d, storage.KeyCollections, list)

	var errs error
	pending := list[:0]
	for _, c := range list {
		if err := m.migrateCollection(ctx, c, rep); err != nil {
			errs = multierr.Append(errs, err)
			pending = append(pending, c)
			continue
		}
		rep.Collections++
	}
	rep.Pending += len(pending)
	persistPending(ctx, m.d, storage.KeyCollections, pending)
	return errs
}

// migrateCollection creates c under its local id, which makes a repeated
// attempt merge into the collection created by an earlier one, then pushes
// its items.
func (m *GuestMigrator) migrateCollection(ctx context.Context, c models.Collection, rep *MigrationReport) error {
	in := models.CollectionInput{Name: c.Name, Icon: c.Icon, Description: c.Description, IsPublic: c.IsPublic}
	raw, err := m.d.Client.CreateCollection(ctx, c.ID, in)
	if err != nil {
		return fmt.Errorf("collection %s: %w", c.ID, err)
	}
	remoteID := normalize.MapCollection(raw).ID
	if remoteID == "" {
		remoteID = c.ID
	}

	key := storage.CollectionItemsKey(c.ID)
	items := loadList[models.CollectionItem](ctx, m.d, key)
	for i := range items {
		items[i].PendingSync = true
	}
	saveList(ctx, m.d, key, items)

	var errs error
	pending := items[:0]
	for _, it := range items {
		if err := m.d.Client.AddCollectionItem(ctx, remoteID, it.ProductID, it.Note); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("collection %s item %s: %w", c.ID, it.ProductID, err))
			pending = append(pending, it)
			continue
		}
		rep.Items++
	}
	rep.Pending += len(pending)
	persistPending(ctx, m.d, key, pending)
	return errs
}

// persistPending stores the records still pending, or removes the key once
// all of them were confirmed.
func persistPending[T any](ctx context.Context, d Deps, key string, pending []T) {
	if len(pending) > 0 {
		saveList(ctx, d, key, pending)
		return
	}
	d.Store.Remove(ctx, key)
}
