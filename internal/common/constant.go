// Package common contains shared constants and sentinel errors used across
// wishsync components.
package common

// AuthorizationHeaderName carries the bearer token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// StorageKeyPrefix namespaces every locally persisted key so the store can be
// shared with other data without collisions.
const StorageKeyPrefix = "wishsync:"
