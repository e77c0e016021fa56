// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

func TestForDataset_Routing(t *testing.T) {
	tests := []struct {
		dataset string
		want    Domain
	}{
		{"gsm8k", DomainMath},
		{"GSM8K", DomainMath},
		{"gsm8k_hard", DomainMath},
		{"mbpp", DomainCode},
		{"mbpp_plus", DomainCode},
		{"truthfulqa", DomainAttribution},
		{"", DomainAttribution},
		{"custom", DomainAttribution},
	}
	for _, tt := range tests {
		if got := ForDataset(tt.dataset).Domain; got != tt.want {
			t.Errorf("ForDataset(%q).Domain = %v, want %v", tt.dataset, got, tt.want)
		}
	}
}

func TestMathClassifier(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want string
	}{
		{
			"format beats everything",
			Input{Rationale: "wrong Format and a calc slip", Answer: "4*3", Rejected: true},
			"format_violation",
		},
		{
			"arithmetic leftovers in answer",
			Input{Rationale: "arithmetic mistake: 4*3 = 11", Answer: "4*3 = 11", Rejected: true},
			"calc_error",
		},
		{
			"counting question",
			Input{Rationale: "wrong", Question: "Count the apples", Rejected: true},
			"count_error",
		},
		{
			"missing step",
			Input{Rationale: "wrong", Question: "Solve step by step", Answer: "5", Rejected: true},
			"missing_step",
		},
		{
			"therefore suppresses missing step",
			Input{Rationale: "wrong", Question: "Solve step by step", Answer: "therefore 5", Rejected: true},
			"other_reasoning",
		},
		{
			"contradiction",
			Input{Rationale: "the steps contradict each other", Answer: "5", Rejected: true},
			"contradiction",
		},
		{
			"misread",
			Input{Rationale: "the model misread the problem", Answer: "5", Rejected: true},
			"misread",
		},
		{
			"catch-all",
			Input{Rationale: "just wrong", Answer: "5", Rejected: true},
			"other_reasoning",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mathClassifier.Classify(tt.in))
		})
	}
}

func TestMathClassifier_RejectGate(t *testing.T) {
	// Answer-based rules only fire on rejected records.
	in := Input{Rationale: "fine", Answer: "4*3", Rejected: false}
	assert.Equal(t, "other_reasoning", mathClassifier.Classify(in))
}

func TestCodeClassifier(t *testing.T) {
	tests := []struct {
		rationale string
		want      string
	}{
		{"syntax error on line 3", "syntax"},
		{"raises an exception on empty input", "runtime"},
		{"produced wrong output for the sample", "functional_wrong"},
		{"reads stdin incorrectly", "io_mismatch"},
		{"misses the edge case of n=0", "edge_case"},
		{"misuses the requests api", "api_misuse"},
		{"type annotation is wrong", "type_error"},
		{"index is off by one... wait, off-by-one", "off_by_one"},
		{"mutates global state", "state_mutation"},
		{"exceeds the time limit", "perf_timeout"},
		{"test leak detected", "test_leak"},
		{"something else entirely", "other_code"},
	}
	for _, tt := range tests {
		got := codeClassifier.Classify(Input{Rationale: tt.rationale, Rejected: true})
		assert.Equal(t, tt.want, got, "rationale %q", tt.rationale)
	}
}

func TestCodeClassifier_OrderMatters(t *testing.T) {
	// "format" appears in both io_mismatch and later rules in other
	// domains; within code, syntax outranks io_mismatch when both match.
	in := Input{Rationale: "parse error due to stdout format", Rejected: true}
	assert.Equal(t, "syntax", codeClassifier.Classify(in))
}

func TestAttrClassifier(t *testing.T) {
	tests := []struct {
		rationale string
		want      string
	}{
		{"contains a factual error", "factuality"},
		{"did not follow the instruction", "instruction_miss"},
		{"the answer is incomplete", "completeness"},
		{"totally off-topic", "relevance"},
		{"the logic does not hold", "reasoning"},
		{"a weak reply, mostly hedging", "style_register"},
		{"unsupported claim about dates", "unsupported"},
		{"the question is ambiguous and mishandled", "ambiguity"},
		{"none of the above", "other_attr"},
	}
	for _, tt := range tests {
		got := attrClassifier.Classify(Input{Rationale: tt.rationale, Rejected: true})
		assert.Equal(t, tt.want, got, "rationale %q", tt.rationale)
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "No error", Name(DomainMath, CodeNone))
	assert.Equal(t, "Calculation error", Name(DomainMath, "calc_error"))
	assert.Equal(t, "Syntax bug", Name(DomainCode, "syntax"))
	assert.Equal(t, "Factual inaccuracy", Name(DomainAttribution, "factuality"))
	assert.Equal(t, "brand_new_code", Name(DomainMath, "brand_new_code"), "unknown codes resolve to themselves")
}

func taggedInput(t *testing.T, dataset, question, answer, rationale string, label record.Label) record.VerifiedRecord {
	t.Helper()
	gen, err := record.NewGeneration([]record.Candidate{{Answer: answer, CoT: "Final: " + answer}})
	require.NoError(t, err)
	return record.VerifiedRecord{
		GenerationRecord: record.GenerationRecord{
			ID:       "t/0",
			Dataset:  dataset,
			Question: question,
			Gen:      gen,
		},
		Verify: record.SingleVerification(record.Verification{
			Label:      label,
			Confidence: 0.8,
			Rationale:  rationale,
		}),
	}
}

func TestTag_AcceptIsAlwaysNone(t *testing.T) {
	rec := taggedInput(t, "gsm8k", "q", "4*3", "format problem everywhere", record.LabelAccept)
	tagged := Tag(rec)
	assert.Equal(t, CodeNone, tagged.TaxonomyCode)
	assert.Equal(t, NameNone, tagged.TaxonomyName)
}

func TestTag_RejectClassifies(t *testing.T) {
	rec := taggedInput(t, "gsm8k", "How many?", "4*3 = 11", "arithmetic mistake: 4*3 = 11", record.LabelReject)
	tagged := Tag(rec)
	assert.Equal(t, "calc_error", tagged.TaxonomyCode)
	assert.Equal(t, "Calculation error", tagged.TaxonomyName)
}

func TestTag_RoutesByDataset(t *testing.T) {
	rec := taggedInput(t, "mbpp", "Write a function", "def f(): pass", "syntax error", record.LabelReject)
	tagged := Tag(rec)
	assert.Equal(t, "syntax", tagged.TaxonomyCode)
	assert.Equal(t, "Syntax bug", tagged.TaxonomyName)

	rec = taggedInput(t, "truthfulqa", "Is it true?", "yes", "contains a factual error", record.LabelReject)
	tagged = Tag(rec)
	assert.Equal(t, "factuality", tagged.TaxonomyCode)
}
