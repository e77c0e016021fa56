// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package metrics

import (
	"github.com/google/uuid"

	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

// Row is the per-question detail line of the metrics export.
type Row struct {
	ID                  string
	GeneratedAnswer     string
	ReferenceAnswer     string
	GenerationCorrect   bool
	VerifyLabel         record.Label
	VerifyConfidence    float64
	VerificationCorrect bool
}

// Bucket is one cell of the confusion breakdown with the mean judge
// confidence over its members. An empty bucket reports mean 0.
type Bucket struct {
	Count          int     `json:"count"`
	MeanConfidence float64 `json:"mean_confidence"`
}

// Confusion is the 2x2 breakdown over (generation correct?, label):
// accepting a correct answer is a true positive, rejecting an incorrect
// one a true negative, and the two judge mistakes fill the off-diagonal.
type Confusion struct {
	TruePositive  Bucket `json:"true_positive"`
	TrueNegative  Bucket `json:"true_negative"`
	FalsePositive Bucket `json:"false_positive"`
	FalseNegative Bucket `json:"false_negative"`
}

// Snapshot is the aggregate result of one metrics run.
//
// With zero total questions every accuracy and the gap are defined as 0.
// GVGap is verification accuracy minus generation accuracy; positive
// means the judge is more reliable than the generator.
type Snapshot struct {
	RunID                string    `json:"run_id"`
	TotalQuestions       int       `json:"total_questions"`
	GenerationCorrect    int       `json:"generation_correct"`
	VerificationCorrect  int       `json:"verification_correct"`
	GenerationAccuracy   float64   `json:"generation_accuracy"`
	VerificationAccuracy float64   `json:"verification_accuracy"`
	GVGap                float64   `json:"gv_gap"`
	Confusion            Confusion `json:"confusion"`
}

// Calculator accumulates per-question results into a Snapshot.
// Not safe for concurrent use; feed it from the ordered emit side.
type Calculator struct {
	runID string
	rows  []Row

	confidences struct {
		tp, tn, fp, fn []float64
	}
}

// NewCalculator creates a Calculator with a fresh run ID.
func NewCalculator() *Calculator {
	return &Calculator{runID: uuid.NewString()}
}

// Add scores one question.
//
// Generation correctness is string equality between the generated and
// reference answers. Verification correctness holds when the judge
// accepted a correct answer or rejected an incorrect one.
func (c *Calculator) Add(id, generated, reference string, label record.Label, confidence float64) {
	genCorrect := AnswersEqual(generated, reference)
	verCorrect := (label == record.LabelAccept && genCorrect) ||
		(label == record.LabelReject && !genCorrect)

	c.rows = append(c.rows, Row{
		ID:                  id,
		GeneratedAnswer:     generated,
		ReferenceAnswer:     reference,
		GenerationCorrect:   genCorrect,
		VerifyLabel:         label,
		VerifyConfidence:    confidence,
		VerificationCorrect: verCorrect,
	})

	switch {
	case genCorrect && label == record.LabelAccept:
		c.confidences.tp = append(c.confidences.tp, confidence)
	case !genCorrect && label == record.LabelReject:
		c.confidences.tn = append(c.confidences.tn, confidence)
	case !genCorrect && label == record.LabelAccept:
		c.confidences.fp = append(c.confidences.fp, confidence)
	default:
		c.confidences.fn = append(c.confidences.fn, confidence)
	}
}

// AddRecord scores one verified record against the reference answers.
// Records without a reference score against the empty string, which
// counts the generation as incorrect.
func (c *Calculator) AddRecord(rec record.VerifiedRecord, refs map[string]string) {
	label, confidence := rec.Verify.Decision()
	c.Add(rec.ID, rec.Gen.Main().Answer, refs[rec.ID], label, confidence)
}

// Rows returns the accumulated detail rows in insertion order.
func (c *Calculator) Rows() []Row {
	cp := make([]Row, len(c.rows))
	copy(cp, c.rows)
	return cp
}

// Snapshot computes the aggregate metrics over everything added so far.
func (c *Calculator) Snapshot() Snapshot {
	snap := Snapshot{
		RunID:          c.runID,
		TotalQuestions: len(c.rows),
	}
	for _, r := range c.rows {
		if r.GenerationCorrect {
			snap.GenerationCorrect++
		}
		if r.VerificationCorrect {
			snap.VerificationCorrect++
		}
	}
	if snap.TotalQuestions > 0 {
		total := float64(snap.TotalQuestions)
		snap.GenerationAccuracy = float64(snap.GenerationCorrect) / total
		snap.VerificationAccuracy = float64(snap.VerificationCorrect) / total
		snap.GVGap = snap.VerificationAccuracy - snap.GenerationAccuracy
	}
	snap.Confusion = Confusion{
		TruePositive:  bucket(c.confidences.tp),
		TrueNegative:  bucket(c.confidences.tn),
		FalsePositive: bucket(c.confidences.fp),
		FalseNegative: bucket(c.confidences.fn),
	}
	return snap
}

func bucket(confidences []float64) Bucket {
	b := Bucket{Count: len(confidences)}
	if b.Count == 0 {
		return b
	}
	sum := 0.0
	for _, v := range confidences {
		sum += v
	}
	b.MeanConfidence = sum / float64(b.Count)
	return b
}
