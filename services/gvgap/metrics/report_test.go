// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package metrics

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

func TestWriteCSV(t *testing.T) {
	rows := []Row{
		{
			ID:                  "gsm8k/test/0",
			GeneratedAnswer:     "72",
			ReferenceAnswer:     "72",
			GenerationCorrect:   true,
			VerifyLabel:         record.LabelAccept,
			VerifyConfidence:    0.9,
			VerificationCorrect: true,
		},
		{
			ID:              "gsm8k/test/1",
			GeneratedAnswer: "11",
			ReferenceAnswer: "10",
			VerifyLabel:     record.LabelAccept,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 3)

	assert.Equal(t, []string{
		"id", "generated_answer", "reference_answer", "generation_correct",
		"verify_label", "verify_confidence", "verification_correct",
	}, parsed[0])
	assert.Equal(t, []string{"gsm8k/test/0", "72", "72", "true", "accept", "0.9", "true"}, parsed[1])
	assert.Equal(t, "false", parsed[2][3])
}

func TestWriteSummary(t *testing.T) {
	calc := NewCalculator()
	calc.Add("a", "72", "72", record.LabelAccept, 0.9)
	calc.Add("b", "11", "10", record.LabelReject, 0.8)
	calc.Add("c", "5", "6", record.LabelAccept, 0.7)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, calc.Snapshot()))
	out := buf.String()

	assert.Contains(t, out, "Total Questions: 3")
	assert.Contains(t, out, "Generation Accuracy: 0.333 (1/3)")
	assert.Contains(t, out, "Verification Accuracy: 0.667 (2/3)")
	assert.Contains(t, out, "GV-Gap: 0.333")
	assert.Contains(t, out, "Positive GV-Gap: verifier outperforms generator")
	assert.Contains(t, out, "False Positives (accept incorrect): 1")
}

func TestWriteSummary_Verdicts(t *testing.T) {
	neg := Snapshot{TotalQuestions: 1, GVGap: -0.5}
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, neg))
	assert.Contains(t, buf.String(), "Negative GV-Gap: generator outperforms verifier")

	buf.Reset()
	require.NoError(t, WriteSummary(&buf, Snapshot{}))
	assert.Contains(t, buf.String(), "Zero GV-Gap")
}

func TestWriteMissRateTable(t *testing.T) {
	buckets := []MissRateBucket{
		{ErrorType: record.ErrorOffByOne, Total: 4, Caught: 3, MissRate: 0.25},
		{ErrorType: record.ErrorSignFlip, Total: 2, Caught: 2, MissRate: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMissRateTable(&buf, buckets))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4, "header, separator, two rows")
	assert.Contains(t, lines[0], "ErrorType")
	assert.Contains(t, lines[0], "MissRate(FNR)")
	assert.Contains(t, lines[2], "off_by_one")
	assert.Contains(t, lines[2], "0.25")
	assert.Contains(t, lines[3], "sign_flip")
}
