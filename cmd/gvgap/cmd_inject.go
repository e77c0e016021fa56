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

	"github.com/AleutianAI/gvgap/services/gvgap/inject"
	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

// runInject streams problems through the error injector. Single-threaded
// on purpose: the injector's determinism contract is seed plus input
// order, and a pool would reorder the random draws.
func runInject(cmd *cobra.Command, args []string) error {
	if err := requireFlags("in", inputPath, "out", outputPath); err != nil {
		return err
	}

	w, err := record.NewWriter(outputPath)
	if err != nil {
		return err
	}
	defer w.Close()

	in := inject.New(cfg.Run.Seed)
	nonNumeric := 0

	skipped, err := record.ForEach(inputPath, cfg.Run.Limit, func(_ int, p record.Problem) error {
		variants, ok := in.Variants(p, cfg.Run.VariantsPerProblem)
		if !ok {
			nonNumeric++
			logger.Debug("skipping problem without numeric answer", slog.String("id", p.ID))
			return nil
		}
		for _, v := range variants {
			if werr := w.Write(v); werr != nil {
				return werr
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logSkipped("inject", skipped)

	logger.Info("injected error variants",
		slog.String("out", outputPath),
		slog.Int("variants", w.Count()),
		slog.Int("skipped_non_numeric", nonNumeric),
		slog.Int64("seed", cfg.Run.Seed),
	)
	return nil
}
