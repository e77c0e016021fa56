// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package oracle defines the judgment-oracle capability: an opaque
// collaborator that accepts prompt messages and returns free text plus
// usage and latency metadata.
//
// Pipeline stages depend only on the Oracle interface, never on a
// concrete provider, so any fake that returns arbitrary text for
// arbitrary prompts can stand in during tests. Transport and protocol
// failures surface as a typed *Error; an oracle must never smuggle a
// failure back inside the response text.
package oracle

import (
	"context"
	"fmt"
	"time"
)

// Message is one chat message in an oracle prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Common message roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Usage is the token accounting reported by a provider for one call.
type Usage struct {
	TokensIn  int `json:"tokens_in"`
	TokensOut int `json:"tokens_out"`
}

// Response is the raw outcome of one oracle invocation.
type Response struct {
	Text    string        `json:"text"`
	Latency time.Duration `json:"latency"`
	Usage   Usage         `json:"usage"`
}

// Oracle is the judgment-oracle capability.
type Oracle interface {
	// Invoke sends one prompt and returns the provider's raw text.
	// A non-nil error is always a *Error describing the transport or
	// protocol failure; the response is nil in that case.
	Invoke(ctx context.Context, messages []Message) (*Response, error)
}

// Error is a typed oracle failure. Failures never travel inside
// response text; a consumer must always be able to tell a failed call
// from content that happens to mention an error.
type Error struct {
	Provider string
	Op       string
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("oracle %s: %s failed after %d attempts: %v", e.Provider, e.Op, e.Attempts, e.Err)
	}
	return fmt.Sprintf("oracle %s: %s failed: %v", e.Provider, e.Op, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }
