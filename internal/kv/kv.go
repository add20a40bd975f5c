// Package kv is the persistence boundary: named JSON blobs addressed by
// a fixed set of keys. The repository serializes whole collections to a
// single key on every mutation, so a backend only needs get/set/delete
// on small values.
package kv

import "context"

// Collection keys. The item collections and the match log are JSON
// arrays; the user key holds a single profile object while a session is
// active.
const (
	KeyLostItems   = "lostItems"
	KeyFoundItems  = "foundItems"
	KeyItemMatches = "itemMatches"
	KeyUser        = "user"
)

// Store persists named blobs. Get reports an absent key with found ==
// false rather than an error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
