// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader is the column layout of the per-question detail export.
var csvHeader = []string{
	"id",
	"generated_answer",
	"reference_answer",
	"generation_correct",
	"verify_label",
	"verify_confidence",
	"verification_correct",
}

// WriteCSV writes one detail row per evaluated question.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.ID,
			r.GeneratedAnswer,
			r.ReferenceAnswer,
			strconv.FormatBool(r.GenerationCorrect),
			string(r.VerifyLabel),
			strconv.FormatFloat(r.VerifyConfidence, 'f', -1, 64),
			strconv.FormatBool(r.VerificationCorrect),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary writes the human-readable analysis report.
func WriteSummary(w io.Writer, snap Snapshot) error {
	var verdict string
	switch {
	case snap.GVGap > 0:
		verdict = "Positive GV-Gap: verifier outperforms generator (good self-verification)"
	case snap.GVGap < 0:
		verdict = "Negative GV-Gap: generator outperforms verifier (poor self-verification)"
	default:
		verdict = "Zero GV-Gap: generator and verifier perform equally"
	}

	_, err := fmt.Fprintf(w,
		"Generation-Verification Gap Analysis\n"+
			"====================================\n\n"+
			"Run ID: %s\n"+
			"Total Questions: %d\n"+
			"Generation Accuracy: %.3f (%d/%d)\n"+
			"Verification Accuracy: %.3f (%d/%d)\n"+
			"GV-Gap: %.3f\n"+
			"%s\n\n"+
			"Verification Patterns:\n"+
			"True Positives (accept correct): %d (mean confidence %.3f)\n"+
			"True Negatives (reject incorrect): %d (mean confidence %.3f)\n"+
			"False Positives (accept incorrect): %d (mean confidence %.3f)\n"+
			"False Negatives (reject correct): %d (mean confidence %.3f)\n",
		snap.RunID,
		snap.TotalQuestions,
		snap.GenerationAccuracy, snap.GenerationCorrect, snap.TotalQuestions,
		snap.VerificationAccuracy, snap.VerificationCorrect, snap.TotalQuestions,
		snap.GVGap,
		verdict,
		snap.Confusion.TruePositive.Count, snap.Confusion.TruePositive.MeanConfidence,
		snap.Confusion.TrueNegative.Count, snap.Confusion.TrueNegative.MeanConfidence,
		snap.Confusion.FalsePositive.Count, snap.Confusion.FalsePositive.MeanConfidence,
		snap.Confusion.FalseNegative.Count, snap.Confusion.FalseNegative.MeanConfidence,
	)
	return err
}

// WriteMissRateTable writes the per-error-type miss rate table for the
// injected-error path.
func WriteMissRateTable(w io.Writer, buckets []MissRateBucket) error {
	if _, err := fmt.Fprintf(w, "%-14s | %5s | %6s | %12s\n", "ErrorType", "Total", "Caught", "MissRate(FNR)"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "---------------------------------------------"); err != nil {
		return err
	}
	for _, b := range buckets {
		if _, err := fmt.Fprintf(w, "%-14s | %5d | %6d | %12.2f\n", b.ErrorType, b.Total, b.Caught, b.MissRate); err != nil {
			return err
		}
	}
	return nil
}
