// Package client contains the client-side building blocks that talk to the
// storefront backend and bootstrap local persistence.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     personal-collections resource family: favorites, collections and their
//     items, saved stores, wishlist settings and share links, plus Login,
//     Register and Ping.
//  2. A concrete REST implementation (see HTTPClient) that attaches a bearer
//     token from a TokenSource, addresses user-scoped paths, falls back from
//     the versioned API to the legacy one, and maps HTTP statuses to sentinel
//     errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Endpoint Fallback
//
// Every call first targets the /api/v1 path of its endpoint. When that
// attempt fails with a transport error or a non-2xx status other than 401,
// 403 and 429, the legacy /api path is tried once. Calls share no failure
// memory: the next call starts with v1 again.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrRateLimited, ErrNotFound.
// Any other non-2xx status is reported as *StatusError.
//
// Read operations return the decoded JSON payload untouched; shaping it into
// models is the job of the normalize package.
package client
