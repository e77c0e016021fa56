// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/gvgap/services/gvgap/record"
	"github.com/AleutianAI/gvgap/services/gvgap/taxonomy"
)

// runTag classifies rejected verdicts into the per-domain error
// taxonomy. Pure string matching, no oracle calls, so it streams
// record-at-a-time without a pool.
func runTag(cmd *cobra.Command, args []string) error {
	if err := requireFlags("in", inputPath, "out", outputPath); err != nil {
		return err
	}

	w, err := record.NewWriter(outputPath)
	if err != nil {
		return err
	}
	defer w.Close()

	counts := make(map[string]int)
	skipped, err := record.ForEach(inputPath, cfg.Run.Limit, func(_ int, rec record.VerifiedRecord) error {
		tagged := taxonomy.Tag(rec)
		counts[tagged.TaxonomyCode]++
		return w.Write(tagged)
	})
	if err != nil {
		return err
	}
	logSkipped("tag", skipped)

	logger.Info("tagged verified records",
		slog.String("out", outputPath),
		slog.Int("records", w.Count()),
		slog.Any("by_code", counts),
	)
	return nil
}
