// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package oracle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, inner Oracle, namespace string) *Cache {
	t.Helper()
	c, err := NewCache(inner, CacheConfig{InMemory: true, Namespace: namespace})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func judgePrompt(q string) []Message {
	return []Message{
		{Role: RoleSystem, Content: "You judge if a final answer is correct."},
		{Role: RoleUser, Content: q},
	}
}

func TestCache_MemoizesSuccess(t *testing.T) {
	fake := NewFake(`{"label":"accept","confidence":0.9,"rationale":"ok"}`).
		WithLatency(120 * time.Millisecond)
	cache := newTestCache(t, fake, "together/test-model")

	first, err := cache.Invoke(context.Background(), judgePrompt("is 72 right?"))
	require.NoError(t, err)
	assert.Equal(t, 120*time.Millisecond, first.Latency)

	second, err := cache.Invoke(context.Background(), judgePrompt("is 72 right?"))
	require.NoError(t, err)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, time.Duration(0), second.Latency, "cached responses report zero latency")
	assert.Equal(t, 1, fake.Calls(), "second call must not reach the inner oracle")
}

func TestCache_DistinctPromptsMiss(t *testing.T) {
	fake := NewFake("resp")
	cache := newTestCache(t, fake, "ns")

	_, err := cache.Invoke(context.Background(), judgePrompt("question one"))
	require.NoError(t, err)
	_, err = cache.Invoke(context.Background(), judgePrompt("question two"))
	require.NoError(t, err)
	assert.Equal(t, 2, fake.Calls())
}

func TestCache_FailuresNotCached(t *testing.T) {
	boom := errors.New("rate limited")
	fake := NewFake("resp").Fail(boom)
	cache := newTestCache(t, fake, "ns")

	_, err := cache.Invoke(context.Background(), judgePrompt("q"))
	require.Error(t, err)

	var oerr *Error
	require.ErrorAs(t, err, &oerr)
	assert.ErrorIs(t, oerr.Err, boom)

	// Recover the inner oracle; the cache must retry, not replay the error.
	fake.Fail(nil)
	resp, err := cache.Invoke(context.Background(), judgePrompt("q"))
	require.NoError(t, err)
	assert.Equal(t, "resp", resp.Text)
	assert.Equal(t, 2, fake.Calls())
}

func TestCache_NilInner(t *testing.T) {
	_, err := NewCache(nil, CacheConfig{InMemory: true})
	assert.Error(t, err)
}
