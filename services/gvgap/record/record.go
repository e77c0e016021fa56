// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package record defines the data model for the GV-Gap evaluation pipeline
// and the JSONL record streams exchanged between pipeline stages.
//
// Every stage owns and fully produces its output record from its input
// record. Nothing is patched in place: a stage that enriches a record
// builds a new one around an embedded copy. This copy-on-transform rule
// is what keeps the stages independently testable.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorType identifies a perturbation strategy applied by the injector.
type ErrorType string

const (
	// ErrorOffByOne is x +/- 1 with the sign chosen uniformly.
	ErrorOffByOne ErrorType = "off_by_one"

	// ErrorSignFlip is -x.
	ErrorSignFlip ErrorType = "sign_flip"

	// ErrorSmallPerturb is x + delta with delta in {2, -2, 3, -3}.
	ErrorSmallPerturb ErrorType = "small_perturb"
)

// Problem is one question from a reference dataset.
//
// Problems are immutable once loaded. ReferenceAnswer is textual but must
// admit numeric extraction for math-domain problems; problems where no
// number can be extracted are skipped by the injector.
type Problem struct {
	ID              string         `json:"id"`
	Domain          string         `json:"domain,omitempty"`
	Dataset         string         `json:"dataset,omitempty"`
	Split           string         `json:"split,omitempty"`
	Question        string         `json:"question"`
	ReferenceAnswer string         `json:"reference_answer"`
	GoldCoT         string         `json:"gold_cot,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// InjectedVariant is a corrupted copy of a problem whose answer is
// ground-truth incorrect by construction.
//
// The ID is the source problem ID with a "::vN" suffix. ErrorInjected is
// always 1 on records produced by the injector; it exists so downstream
// consumers can distinguish injected streams from reference streams.
type InjectedVariant struct {
	ID              string    `json:"id"`
	Question        string    `json:"question"`
	ReferenceAnswer string    `json:"reference_answer"`
	CorruptedAnswer string    `json:"corrupted_answer"`
	ErrorInjected   int       `json:"error_injected"`
	ErrorType       ErrorType `json:"error_type"`
}

// GeneratorInfo records the configuration used to produce candidates.
type GeneratorInfo struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	NSamples    int     `json:"n_samples"`
}

// Candidate is one generated answer attempt for a question.
type Candidate struct {
	CoT            string   `json:"cot"`
	Answer         string   `json:"answer"`
	LatencySeconds float64  `json:"latency_s"`
	TokensIn       int      `json:"tokens_in"`
	TokensOut      int      `json:"tokens_out"`
	CostUSD        *float64 `json:"cost_usd"`
}

// ErrNoCandidates indicates a generation block with no candidates.
var ErrNoCandidates = errors.New("generation has no candidates")

// Generation is the tagged result of a generation run: one or more
// candidates, with candidate 0 as the canonical "main" answer.
//
// The wire format duplicates candidate 0 at the top level of the "gen"
// object for single-sample consumers; Generation reproduces that shape on
// marshal and accepts either shape on unmarshal, so downstream code never
// probes for key presence.
type Generation struct {
	candidates []Candidate
}

// NewGeneration builds a Generation from a non-empty ordered candidate
// sequence. The slice is copied.
func NewGeneration(candidates []Candidate) (Generation, error) {
	if len(candidates) == 0 {
		return Generation{}, ErrNoCandidates
	}
	cp := make([]Candidate, len(candidates))
	copy(cp, candidates)
	return Generation{candidates: cp}, nil
}

// Main returns the canonical candidate (index 0).
func (g Generation) Main() Candidate {
	if len(g.candidates) == 0 {
		return Candidate{}
	}
	return g.candidates[0]
}

// Candidates returns a copy of the ordered candidate sequence.
func (g Generation) Candidates() []Candidate {
	cp := make([]Candidate, len(g.candidates))
	copy(cp, g.candidates)
	return cp
}

// MultiSample reports whether more than one candidate was generated.
func (g Generation) MultiSample() bool { return len(g.candidates) > 1 }

// genWire is the on-disk shape of the "gen" object.
type genWire struct {
	Candidates     []Candidate `json:"candidates,omitempty"`
	CoT            string      `json:"cot"`
	Answer         string      `json:"answer"`
	LatencySeconds float64     `json:"latency_s"`
	TokensIn       int         `json:"tokens_in"`
	TokensOut      int         `json:"tokens_out"`
	CostUSD        *float64    `json:"cost_usd"`
}

// MarshalJSON writes the candidate list plus the mirrored main candidate.
func (g Generation) MarshalJSON() ([]byte, error) {
	if len(g.candidates) == 0 {
		return nil, ErrNoCandidates
	}
	main := g.candidates[0]
	return json.Marshal(genWire{
		Candidates:     g.candidates,
		CoT:            main.CoT,
		Answer:         main.Answer,
		LatencySeconds: main.LatencySeconds,
		TokensIn:       main.TokensIn,
		TokensOut:      main.TokensOut,
		CostUSD:        main.CostUSD,
	})
}

// UnmarshalJSON accepts both the multi-sample shape and the legacy
// single-sample shape that carries only the top-level answer fields.
func (g *Generation) UnmarshalJSON(data []byte) error {
	var w genWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode gen block: %w", err)
	}
	if len(w.Candidates) > 0 {
		g.candidates = w.Candidates
		return nil
	}
	if w.Answer == "" && w.CoT == "" {
		return ErrNoCandidates
	}
	g.candidates = []Candidate{{
		CoT:            w.CoT,
		Answer:         w.Answer,
		LatencySeconds: w.LatencySeconds,
		TokensIn:       w.TokensIn,
		TokensOut:      w.TokensOut,
		CostUSD:        w.CostUSD,
	}}
	return nil
}

// GenerationRecord is the output of the generation stage: the source
// problem fields plus generator configuration and candidates.
type GenerationRecord struct {
	ID        string        `json:"id"`
	Domain    string        `json:"domain,omitempty"`
	Dataset   string        `json:"dataset,omitempty"`
	Split     string        `json:"split,omitempty"`
	Question  string        `json:"question"`
	Generator GeneratorInfo `json:"generator"`
	Gen       Generation    `json:"gen"`
}
