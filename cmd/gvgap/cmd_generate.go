// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/gvgap/pkg/pool"
	"github.com/AleutianAI/gvgap/services/gvgap/generate"
	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

// runGenerate produces candidate answers for every problem in the input
// stream, in parallel, emitting records in input order.
func runGenerate(cmd *cobra.Command, args []string) error {
	if err := requireFlags("in", inputPath, "out", outputPath); err != nil {
		return err
	}

	// Deterministic decoding cannot diverge, so multi-sample runs need a
	// sampling temperature.
	temperature := cfg.Oracle.Temperature
	if cfg.Run.NSamples > 1 {
		temperature = cfg.Oracle.SolveTemperature
	}

	o, cleanup, err := buildOracle(temperature)
	if err != nil {
		return err
	}
	defer cleanup()

	gen := generate.NewGenerator(o, record.GeneratorInfo{
		Provider:    cfg.Oracle.Provider,
		Model:       cfg.Oracle.Model,
		Temperature: temperature,
		NSamples:    cfg.Run.NSamples,
	}, generate.WithLogger(logger.Logger))

	problems, skipped, err := record.ReadAll[record.Problem](inputPath, cfg.Run.Limit)
	if err != nil {
		return err
	}
	logSkipped("generate", skipped)

	w, err := record.NewWriter(outputPath)
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Info("generating candidates",
		slog.Int("problems", len(problems)),
		slog.Int("n_samples", cfg.Run.NSamples),
		slog.Int("workers", cfg.Run.Workers),
		slog.String("model", cfg.Oracle.Model),
	)

	err = pool.Map(cmd.Context(), cfg.Run.Workers, problems,
		func(ctx context.Context, _ int, p record.Problem) (record.GenerationRecord, error) {
			return gen.GenerateRecord(ctx, p)
		},
		func(_ int, rec record.GenerationRecord) error {
			return w.Write(rec)
		},
	)
	if err != nil {
		return err
	}

	logger.Info("generation complete",
		slog.String("out", outputPath),
		slog.Int("records", w.Count()),
	)
	return nil
}
