// Package keyvalue provides the client-side persistent key-value store that
// backs guest sessions.
//
// # Overview
//
// Repository describes byte-level Get/Set/Delete plus key enumeration with
// SQLite GLOB patterns. SQLiteRepository persists rows in the kv table over a
// dbx.DBTX (either *sql.DB or *sql.Tx). Encoding of values (JSON or raw
// strings) is the job of the storage adapter in internal/client/storage.
//
// # Concurrency
//
// The store may be shared by several processes. There is no coordination
// beyond SQLite's own locking: the last write wins.
//
// Typical Usage
//
//	repo := keyvalue.NewSQLiteRepository(db)
//	_ = repo.Set(ctx, "wishsync:saved_stores", []byte(`[]`))
//	v, _ := repo.Get(ctx, "wishsync:saved_stores")
//	keys, _ := repo.Keys(ctx, "wishsync:collection_items:*")
package keyvalue
