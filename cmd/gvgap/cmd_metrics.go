// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/gvgap/services/gvgap/metrics"
	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

// runMetricsGap computes the generation-verification gap over a verified
// stream, scored against the reference problem stream.
func runMetricsGap(cmd *cobra.Command, args []string) error {
	if err := requireFlags("in", inputPath, "problems", problemsPath); err != nil {
		return err
	}

	refs, refSkipped, err := record.ReferenceAnswers(problemsPath)
	if err != nil {
		return err
	}
	logSkipped("metrics-refs", refSkipped)

	calc := metrics.NewCalculator()
	skipped, err := record.ForEach(inputPath, cfg.Run.Limit, func(_ int, rec record.VerifiedRecord) error {
		calc.AddRecord(rec, refs)
		return nil
	})
	if err != nil {
		return err
	}
	logSkipped("metrics", skipped)

	snap := calc.Snapshot()

	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return err
		}
		if err := metrics.WriteCSV(f, calc.Rows()); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("wrote detail csv", slog.String("path", csvPath), slog.Int("rows", snap.TotalQuestions))
	}

	out, closeOut, err := openOutput(summaryPath)
	if err != nil {
		return err
	}
	defer closeOut()

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("wrote snapshot json", slog.String("path", outputPath))
	}
	return metrics.WriteSummary(out, snap)
}

// runMetricsMissRate computes per-error-type miss rates over a verified
// injected stream.
func runMetricsMissRate(cmd *cobra.Command, args []string) error {
	if err := requireFlags("in", inputPath); err != nil {
		return err
	}

	mr := metrics.NewMissRate()
	skipped, err := record.ForEach(inputPath, cfg.Run.Limit, func(_ int, rec record.InjectedVerifiedRecord) error {
		mr.AddRecord(rec)
		return nil
	})
	if err != nil {
		return err
	}
	logSkipped("missrate", skipped)

	out, closeOut, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(mr.Buckets())
	}
	return metrics.WriteMissRateTable(out, mr.Buckets())
}
