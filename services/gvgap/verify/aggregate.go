// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package verify

import (
	"fmt"
	"math"
	"strings"

	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

// maxRationalesInSummary bounds how many individual rationales the
// aggregate rationale embeds.
const maxRationalesInSummary = 2

// Aggregate combines an ordered sequence of per-candidate verdicts into
// one decision by majority vote.
//
// The label with strictly more votes wins. On a tie, the label of the
// single verdict with the maximum confidence wins; when several verdicts
// share that maximum, the first of them in input order wins. That
// first-match rule is a contract, not an implementation detail: callers
// and tests rely on it being deterministic.
//
// The aggregate confidence is the arithmetic mean of the individual
// confidences rounded to 3 decimal places. An empty input yields the
// explicit degenerate aggregate {reject, 0.0, "no candidates"} rather
// than an error.
func Aggregate(verdicts []record.Verification) record.AggregateVerification {
	if len(verdicts) == 0 {
		return record.AggregateVerification{
			Label:      record.LabelReject,
			Confidence: 0.0,
			Rationale:  "no candidates",
		}
	}

	accepts := 0
	for _, v := range verdicts {
		if v.Label == record.LabelAccept {
			accepts++
		}
	}
	rejects := len(verdicts) - accepts

	var label record.Label
	switch {
	case accepts > rejects:
		label = record.LabelAccept
	case rejects > accepts:
		label = record.LabelReject
	default:
		label = tieBreak(verdicts)
	}

	sum := 0.0
	for _, v := range verdicts {
		sum += v.Confidence
	}
	mean := math.Round(sum/float64(len(verdicts))*1000) / 1000

	return record.AggregateVerification{
		Label:          label,
		Confidence:     mean,
		Rationale:      summarize(accepts, rejects, verdicts),
		CandidateCount: len(verdicts),
		AcceptCount:    accepts,
		RejectCount:    rejects,
	}
}

// tieBreak returns the label of the first verdict holding the maximum
// confidence.
func tieBreak(verdicts []record.Verification) record.Label {
	best := 0
	for i, v := range verdicts {
		if v.Confidence > verdicts[best].Confidence {
			best = i
		}
	}
	return verdicts[best].Label
}

// summarize builds the fixed-format aggregate rationale: the vote tally
// followed by at most the first two individual rationales.
func summarize(accepts, rejects int, verdicts []record.Verification) string {
	n := len(verdicts)
	if n > maxRationalesInSummary {
		n = maxRationalesInSummary
	}
	parts := make([]string, 0, n)
	for _, v := range verdicts[:n] {
		parts = append(parts, v.Rationale)
	}
	return fmt.Sprintf("Majority vote (%dA/%dR): %s", accepts, rejects, strings.Join(parts, "; "))
}
