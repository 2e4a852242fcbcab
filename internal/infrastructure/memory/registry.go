// Package memory holds process-lifetime stores built on a sharded, per-key locked registry.
package memory

import (
	"errors"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const shardCount = 32

var (
	ErrNotFound = errors.New("memory: key not found")
	ErrExists   = errors.New("memory: key already exists")
)

type entry[V any] struct {
	mu      sync.Mutex
	val     V
	removed bool
}

type shard[V any] struct {
	mu sync.RWMutex
	m  map[string]*entry[V]
}

// Registry maps string keys to values. Shard locks only guard map access; each value has its own
// mutex, held while a callback runs, so work on one key never blocks another key.
type Registry[V any] struct {
	shards [shardCount]*shard[V]
}

func NewRegistry[V any]() *Registry[V] {
	r := &Registry[V]{}
	for i := range r.shards {
		r.shards[i] = &shard[V]{m: make(map[string]*entry[V])}
	}
	return r
}

func (r *Registry[V]) shardFor(key string) *shard[V] {
	return r.shards[xxhash.Sum64String(key)%shardCount]
}

func (r *Registry[V]) lookup(key string) *entry[V] {
	sh := r.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.m[key]
}

// Insert adds key; it fails with ErrExists if the key is present.
func (r *Registry[V]) Insert(key string, val V) error {
	sh := r.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.m[key]; ok {
		return ErrExists
	}
	sh.m[key] = &entry[V]{val: val}
	return nil
}

// Upsert runs fn on the value at key, creating it with create() first when absent.
func (r *Registry[V]) Upsert(key string, create func() V, fn func(V) error) error {
	for {
		e := r.lookup(key)
		if e == nil {
			sh := r.shardFor(key)
			sh.mu.Lock()
			if e = sh.m[key]; e == nil {
				e = &entry[V]{val: create()}
				sh.m[key] = e
			}
			sh.mu.Unlock()
		}
		e.mu.Lock()
		if e.removed {
			// Lost a race with Remove or Replace; retry against the current map.
			e.mu.Unlock()
			continue
		}
		err := fn(e.val)
		e.mu.Unlock()
		return err
	}
}

// With runs fn on the value at key under its lock.
func (r *Registry[V]) With(key string, fn func(V) error) error {
	e := r.lookup(key)
	if e == nil {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return ErrNotFound
	}
	return fn(e.val)
}

// Remove runs fn under the key's lock and deletes the key if fn returns nil. fn may be nil.
func (r *Registry[V]) Remove(key string, fn func(V) error) error {
	e := r.lookup(key)
	if e == nil {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return ErrNotFound
	}
	if fn != nil {
		if err := fn(e.val); err != nil {
			return err
		}
	}
	e.removed = true
	sh := r.shardFor(key)
	sh.mu.Lock()
	if sh.m[key] == e {
		delete(sh.m, key)
	}
	sh.mu.Unlock()
	return nil
}

// Keys returns a point-in-time list of keys in no particular order.
func (r *Registry[V]) Keys() []string {
	var keys []string
	for _, sh := range r.shards {
		sh.mu.RLock()
		for k := range sh.m {
			keys = append(keys, k)
		}
		sh.mu.RUnlock()
	}
	return keys
}

// Replace swaps the whole content for vals. Previous values are marked removed so that callers
// that looked them up earlier observe ErrNotFound.
func (r *Registry[V]) Replace(vals map[string]V) {
	fresh := make([]map[string]*entry[V], shardCount)
	for i := range fresh {
		fresh[i] = make(map[string]*entry[V])
	}
	for k, v := range vals {
		fresh[xxhash.Sum64String(k)%shardCount][k] = &entry[V]{val: v}
	}

	var stale []*entry[V]
	for i, sh := range r.shards {
		sh.mu.Lock()
		for _, e := range sh.m {
			stale = append(stale, e)
		}
		sh.m = fresh[i]
		sh.mu.Unlock()
	}
	// Entry locks are taken after shard locks are released: Remove locks in the opposite order.
	for _, e := range stale {
		e.mu.Lock()
		e.removed = true
		e.mu.Unlock()
	}
}
