// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package oracle

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Fake is a scripted Oracle for tests.
//
// Responses are matched by substring against the last user message, in
// registration order; the default response answers anything unmatched.
// Fail makes every call return a typed error, exercising the degraded
// paths without a network.
type Fake struct {
	mu       sync.Mutex
	rules    []fakeRule
	fallback string
	err      error
	latency  time.Duration
	calls    int
	prompts  []string
}

type fakeRule struct {
	substr string
	text   string
}

// NewFake creates a fake oracle whose default response is text.
func NewFake(text string) *Fake {
	return &Fake{fallback: text}
}

// Respond registers a scripted response for prompts containing substr.
func (f *Fake) Respond(substr, text string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, fakeRule{substr: substr, text: text})
	return f
}

// Fail makes every subsequent call return err wrapped in a *Error.
func (f *Fake) Fail(err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
	return f
}

// WithLatency sets the reported (not slept) latency.
func (f *Fake) WithLatency(d time.Duration) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latency = d
	return f
}

// Calls returns how many times Invoke ran.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Prompts returns the user-message contents seen so far, in call order.
func (f *Fake) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]string, len(f.prompts))
	copy(cp, f.prompts)
	return cp
}

// Invoke implements Oracle.
func (f *Fake) Invoke(_ context.Context, messages []Message) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	var user string
	for _, m := range messages {
		if m.Role == RoleUser {
			user = m.Content
		}
	}
	f.prompts = append(f.prompts, user)

	if f.err != nil {
		return nil, &Error{Provider: "fake", Op: "invoke", Attempts: 1, Err: f.err}
	}

	text := f.fallback
	for _, r := range f.rules {
		if strings.Contains(user, r.substr) {
			text = r.text
			break
		}
	}
	return &Response{
		Text:    text,
		Latency: f.latency,
		Usage:   Usage{TokensIn: len(user) / 4, TokensOut: len(text) / 4},
	}, nil
}
