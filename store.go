// Package lessonstore is the device-local persistence layer for the listening
// app: user preferences, per-lesson listening progress, recency pointers, an
// anonymous metrics token, and feature killswitches, all kept in a flat
// string-keyed store. Callers inject a Store implementation; nothing in this
// package caches values across calls, every read goes back to the store.
package lessonstore

import "context"

// Store is the key-value backend: a persistent mapping from string key to
// string value with exact-key access only. No range queries, no transactions
// across keys.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
