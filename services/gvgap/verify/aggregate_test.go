// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

func accept(conf float64, rationale string) record.Verification {
	return record.Verification{Label: record.LabelAccept, Confidence: conf, Rationale: rationale}
}

func reject(conf float64, rationale string) record.Verification {
	return record.Verification{Label: record.LabelReject, Confidence: conf, Rationale: rationale}
}

func TestAggregate_Majority(t *testing.T) {
	agg := Aggregate([]record.Verification{
		accept(0.9, "looks right"),
		accept(0.8, "agree"),
		reject(0.99, "dissent"),
	})

	assert.Equal(t, record.LabelAccept, agg.Label, "2A/1R is an accept regardless of confidences")
	assert.Equal(t, 3, agg.CandidateCount)
	assert.Equal(t, 2, agg.AcceptCount)
	assert.Equal(t, 1, agg.RejectCount)
}

func TestAggregate_MeanConfidenceRounded(t *testing.T) {
	agg := Aggregate([]record.Verification{
		accept(0.9, "a"),
		accept(0.8, "b"),
		reject(0.3, "c"),
	})
	// (0.9 + 0.8 + 0.3) / 3 = 0.666...
	assert.Equal(t, 0.667, agg.Confidence)
}

func TestAggregate_TieBreakMaxConfidence(t *testing.T) {
	agg := Aggregate([]record.Verification{
		reject(0.4, "no"),
		accept(0.95, "confident yes"),
	})
	assert.Equal(t, record.LabelAccept, agg.Label)
}

func TestAggregate_TieBreakFirstWinsOnEqualConfidence(t *testing.T) {
	agg := Aggregate([]record.Verification{
		accept(0.9, "yes"),
		reject(0.9, "no"),
	})
	assert.Equal(t, record.LabelAccept, agg.Label, "first verdict at max confidence wins the tie")

	flipped := Aggregate([]record.Verification{
		reject(0.9, "no"),
		accept(0.9, "yes"),
	})
	assert.Equal(t, record.LabelReject, flipped.Label)
}

func TestAggregate_RationaleFormat(t *testing.T) {
	agg := Aggregate([]record.Verification{
		accept(0.9, "first reason"),
		accept(0.8, "second reason"),
		reject(0.2, "third reason never shown"),
	})
	assert.Equal(t, "Majority vote (2A/1R): first reason; second reason", agg.Rationale)
}

func TestAggregate_SingleVerdict(t *testing.T) {
	agg := Aggregate([]record.Verification{reject(0.75, "sum is off")})
	assert.Equal(t, record.LabelReject, agg.Label)
	assert.Equal(t, 0.75, agg.Confidence)
	assert.Equal(t, "Majority vote (0A/1R): sum is off", agg.Rationale)
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil)
	assert.Equal(t, record.LabelReject, agg.Label)
	assert.Equal(t, 0.0, agg.Confidence)
	assert.Equal(t, "no candidates", agg.Rationale)
	assert.Equal(t, 0, agg.CandidateCount)
}

func TestAggregate_CountsAlwaysSum(t *testing.T) {
	verdicts := []record.Verification{
		accept(0.1, "a"), reject(0.2, "b"), accept(0.3, "c"),
		reject(0.4, "d"), reject(0.5, "e"),
	}
	agg := Aggregate(verdicts)
	assert.Equal(t, agg.CandidateCount, agg.AcceptCount+agg.RejectCount)
	assert.Equal(t, record.LabelReject, agg.Label)
	assert.Equal(t, 0.3, agg.Confidence)
}
