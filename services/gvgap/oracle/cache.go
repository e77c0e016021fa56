// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package oracle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// CacheConfig configures a response cache.
type CacheConfig struct {
	// Dir is the BadgerDB directory. Ignored when InMemory is true.
	Dir string

	// InMemory keeps the cache off disk. Used in tests.
	InMemory bool

	// Namespace is mixed into every key; use provider+model so a cache
	// directory can be shared across runs without cross-model hits.
	Namespace string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Cache is an Oracle that memoizes successful responses in BadgerDB.
//
// Judge calls are deterministic at temperature 0, so re-running a
// pipeline over the same records should not re-bill the provider. Keys
// are a hash of the namespace and the full prompt; failures are never
// cached. Cached responses report zero latency, since no call happened.
type Cache struct {
	inner     Oracle
	db        *badger.DB
	namespace string
	logger    *slog.Logger
}

// NewCache wraps inner with a Badger-backed response cache.
func NewCache(inner Oracle, cfg CacheConfig) (*Cache, error) {
	if inner == nil {
		return nil, errors.New("inner oracle must not be nil")
	}

	opts := badger.DefaultOptions(cfg.Dir).
		WithInMemory(cfg.InMemory).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open oracle cache: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{inner: inner, db: db, namespace: cfg.Namespace, logger: logger}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error { return c.db.Close() }

// Invoke implements Oracle.
func (c *Cache) Invoke(ctx context.Context, messages []Message) (*Response, error) {
	key := c.key(messages)

	if resp, ok := c.get(key); ok {
		c.logger.Debug("oracle cache hit", slog.String("key", hex.EncodeToString(key[:8])))
		return resp, nil
	}

	resp, err := c.inner.Invoke(ctx, messages)
	if err != nil {
		return nil, err
	}
	c.put(key, resp)
	return resp, nil
}

// key hashes the namespace and every message into a stable cache key.
func (c *Cache) key(messages []Message) []byte {
	h := sha256.New()
	h.Write([]byte(c.namespace))
	for _, m := range messages {
		h.Write([]byte{0})
		h.Write([]byte(m.Role))
		h.Write([]byte{0})
		h.Write([]byte(m.Content))
	}
	return h.Sum(nil)
}

func (c *Cache) get(key []byte) (*Response, bool) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.logger.Warn("oracle cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		c.logger.Warn("oracle cache entry corrupt, ignoring", slog.String("error", err.Error()))
		return nil, false
	}
	resp.Latency = 0
	return &resp, true
}

func (c *Cache) put(key []byte, resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		c.logger.Warn("oracle cache write failed", slog.String("error", err.Error()))
	}
}
