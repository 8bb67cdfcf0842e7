package storage

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Accessor is the safe front of a Store. It never returns errors: failures
// are logged and read back as absent or dropped.
type Accessor struct {
	store Store
}

func NewAccessor(store Store) *Accessor {
	if store == nil {
		store = NoopStore{}
	}
	return &Accessor{store: store}
}

// Available reports whether a real store backs this accessor
func (a *Accessor) Available() bool {
	s := a.store
	for {
		switch v := s.(type) {
		case NoopStore, *NoopStore:
			return false
		case *Namespaced:
			s = v.Unwrap()
		default:
			return true
		}
	}
}

func (a *Accessor) Get(ctx context.Context, key string) (string, bool) {
	value, ok, err := a.store.Get(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("error getting storage item")
		return "", false
	}
	return value, ok
}

func (a *Accessor) Set(ctx context.Context, key, value string) {
	if err := a.store.Set(ctx, key, value); err != nil {
		log.Error().Err(err).Str("key", key).Msg("error setting storage item")
	}
}

func (a *Accessor) Remove(ctx context.Context, key string) {
	if err := a.store.Remove(ctx, key); err != nil {
		log.Error().Err(err).Str("key", key).Msg("error removing storage item")
	}
}

// ClearPrefix removes every key starting with prefix. Keys are collected
// first and removed afterwards; a failed removal does not stop the rest.
func (a *Accessor) ClearPrefix(ctx context.Context, prefix string) {
	keys, err := a.store.Keys(ctx, prefix)
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("error clearing storage with prefix")
		return
	}
	for _, k := range keys {
		a.Remove(ctx, k)
	}
}
