// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package record

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Label is a judge verdict on a candidate answer.
type Label string

const (
	// LabelAccept means the judge believes the answer is correct.
	LabelAccept Label = "accept"

	// LabelReject means the judge believes the answer is incorrect.
	LabelReject Label = "reject"
)

// Valid reports whether l is one of the two recognized verdicts.
func (l Label) Valid() bool { return l == LabelAccept || l == LabelReject }

// Verification is one validated judge verdict for one candidate.
// Confidence is always in [0, 1]. Immutable once produced.
type Verification struct {
	Label          Label   `json:"label"`
	Confidence     float64 `json:"confidence"`
	Rationale      string  `json:"rationale"`
	LatencySeconds float64 `json:"latency_s"`
}

// AggregateVerification is the majority-vote combination of the per-candidate
// verdicts for one question. AcceptCount + RejectCount == CandidateCount.
type AggregateVerification struct {
	Label          Label   `json:"label"`
	Confidence     float64 `json:"confidence"`
	Rationale      string  `json:"rationale"`
	CandidateCount int     `json:"candidate_count"`
	AcceptCount    int     `json:"accept_count"`
	RejectCount    int     `json:"reject_count"`
}

// ErrEmptyVerification indicates a verify block with neither a single
// verdict nor an aggregate.
var ErrEmptyVerification = errors.New("verification result is empty")

// VerificationResult is the tagged outcome of the verification stage:
// either a single verdict or an aggregate with its per-candidate verdicts.
//
// The wire format is the bare Verification object in the single case and
// {"aggregate": {...}, "candidates": [...]} in the multi-sample case.
type VerificationResult struct {
	single    *Verification
	aggregate *AggregateVerification
	verdicts  []Verification
}

// SingleVerification wraps one verdict as a VerificationResult.
func SingleVerification(v Verification) VerificationResult {
	return VerificationResult{single: &v}
}

// AggregatedVerification wraps an aggregate and the ordered per-candidate
// verdicts it was derived from. The verdict slice is copied.
func AggregatedVerification(agg AggregateVerification, verdicts []Verification) VerificationResult {
	cp := make([]Verification, len(verdicts))
	copy(cp, verdicts)
	return VerificationResult{aggregate: &agg, verdicts: cp}
}

// Aggregated reports whether the result came from multi-sample aggregation.
func (r VerificationResult) Aggregated() bool { return r.aggregate != nil }

// Decision returns the effective verdict label and confidence regardless
// of which variant the result holds. Empty results decide reject/0 so a
// missing verify block can never read as acceptance.
func (r VerificationResult) Decision() (Label, float64) {
	switch {
	case r.aggregate != nil:
		return r.aggregate.Label, r.aggregate.Confidence
	case r.single != nil:
		return r.single.Label, r.single.Confidence
	default:
		return LabelReject, 0.0
	}
}

// Rationale returns the rationale of the effective verdict.
func (r VerificationResult) Rationale() string {
	switch {
	case r.aggregate != nil:
		return r.aggregate.Rationale
	case r.single != nil:
		return r.single.Rationale
	default:
		return ""
	}
}

// Aggregate returns the aggregate verdict, or false for single results.
func (r VerificationResult) Aggregate() (AggregateVerification, bool) {
	if r.aggregate == nil {
		return AggregateVerification{}, false
	}
	return *r.aggregate, true
}

// Verdicts returns a copy of the per-candidate verdicts. Single results
// return their one verdict.
func (r VerificationResult) Verdicts() []Verification {
	if r.single != nil {
		return []Verification{*r.single}
	}
	cp := make([]Verification, len(r.verdicts))
	copy(cp, r.verdicts)
	return cp
}

type verifyWire struct {
	Aggregate  *AggregateVerification `json:"aggregate,omitempty"`
	Candidates []Verification         `json:"candidates,omitempty"`

	// Single-sample shape, inlined.
	Label          Label   `json:"label,omitempty"`
	Confidence     float64 `json:"confidence,omitempty"`
	Rationale      string  `json:"rationale,omitempty"`
	LatencySeconds float64 `json:"latency_s,omitempty"`
}

// MarshalJSON writes the single or the aggregate wire shape.
func (r VerificationResult) MarshalJSON() ([]byte, error) {
	switch {
	case r.aggregate != nil:
		return json.Marshal(struct {
			Aggregate  AggregateVerification `json:"aggregate"`
			Candidates []Verification        `json:"candidates"`
		}{Aggregate: *r.aggregate, Candidates: r.verdicts})
	case r.single != nil:
		return json.Marshal(*r.single)
	default:
		return nil, ErrEmptyVerification
	}
}

// UnmarshalJSON distinguishes the two wire shapes. This decode boundary is
// the only place that looks at key presence; everything downstream works
// through the tagged variant.
func (r *VerificationResult) UnmarshalJSON(data []byte) error {
	var w verifyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode verify block: %w", err)
	}
	if w.Aggregate != nil {
		r.aggregate = w.Aggregate
		r.verdicts = w.Candidates
		r.single = nil
		return nil
	}
	if !w.Label.Valid() {
		return fmt.Errorf("%w: label %q", ErrEmptyVerification, w.Label)
	}
	r.single = &Verification{
		Label:          w.Label,
		Confidence:     w.Confidence,
		Rationale:      w.Rationale,
		LatencySeconds: w.LatencySeconds,
	}
	r.aggregate = nil
	r.verdicts = nil
	return nil
}

// VerifiedRecord is a generation record enriched with its verification.
type VerifiedRecord struct {
	GenerationRecord
	Verify VerificationResult `json:"verify"`
}

// TaggedRecord is a verified record enriched with its error-taxonomy
// classification. TaxonomyCode is "none" iff the verdict label is accept.
type TaggedRecord struct {
	VerifiedRecord
	TaxonomyCode string `json:"taxonomy_code"`
	TaxonomyName string `json:"taxonomy_name"`
}

// InjectedVerifiedRecord is an injected variant enriched with the judge's
// verdict on its corrupted answer. Ground truth is incorrect by
// construction, so a reject label means the judge caught the error.
type InjectedVerifiedRecord struct {
	InjectedVariant
	Verify Verification `json:"verify"`
}
