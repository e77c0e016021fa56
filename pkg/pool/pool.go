// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package pool runs record-at-a-time pipeline work through a bounded
// worker pool while preserving input order on the output side.
//
// Every record's computation depends only on its own inputs, so the
// evaluation stages are embarrassingly parallel; what must not change
// under concurrency is the order of emitted records. Results are
// buffered and re-sequenced by input index before emit runs.
package pool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type indexed[T any] struct {
	index int
	value T
}

// Map applies fn to every item with at most workers concurrent calls and
// invokes emit once per result, in input order.
//
// fn errors are fatal: the pool cancels outstanding work and returns the
// first error. Recoverable per-record conditions belong inside fn's
// result type, not its error. emit runs on a single goroutine; an emit
// error likewise cancels the run. A cancelled context aborts between
// records, never mid-emit.
func Map[In, Out any](
	ctx context.Context,
	workers int,
	items []In,
	fn func(ctx context.Context, index int, item In) (Out, error),
	emit func(index int, out Out) error,
) error {
	if len(items) == 0 {
		return ctx.Err()
	}
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make(chan indexed[Out], workers)
	go func() {
		defer close(results)
		for i, item := range items {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				out, err := fn(gctx, i, item)
				if err != nil {
					return err
				}
				select {
				case results <- indexed[Out]{index: i, value: out}:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}
		g.Wait()
	}()

	var emitErr error
	pending := make(map[int]Out, workers)
	next := 0
	for r := range results {
		if emitErr != nil {
			continue // drain so workers are not blocked on send
		}
		pending[r.index] = r.value
		for {
			out, ok := pending[next]
			if !ok {
				break
			}
			if err := emit(next, out); err != nil {
				emitErr = err
				cancel()
				break
			}
			delete(pending, next)
			next++
		}
	}

	if err := g.Wait(); err != nil && emitErr == nil {
		return err
	}
	if emitErr != nil {
		return emitErr
	}
	return ctx.Err()
}
