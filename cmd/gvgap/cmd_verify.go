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
	"github.com/AleutianAI/gvgap/services/gvgap/record"
	"github.com/AleutianAI/gvgap/services/gvgap/verify"
)

// runVerifyGenerations judges every generated answer in the input
// stream. Per-record failures never abort the run: the verifier degrades
// them to fail-safe reject verdicts, so the output always has one record
// per input record, in input order.
func runVerifyGenerations(cmd *cobra.Command, args []string) error {
	if err := requireFlags("in", inputPath, "out", outputPath); err != nil {
		return err
	}

	o, cleanup, err := buildOracle(cfg.Oracle.Temperature)
	if err != nil {
		return err
	}
	defer cleanup()

	v := verify.NewVerifier(o, verify.WithLogger(logger.Logger))

	recs, skipped, err := record.ReadAll[record.GenerationRecord](inputPath, cfg.Run.Limit)
	if err != nil {
		return err
	}
	logSkipped("verify", skipped)

	w, err := record.NewWriter(outputPath)
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Info("verifying generations",
		slog.Int("records", len(recs)),
		slog.Int("workers", cfg.Run.Workers),
		slog.String("model", cfg.Oracle.Model),
	)

	err = pool.Map(cmd.Context(), cfg.Run.Workers, recs,
		func(ctx context.Context, _ int, rec record.GenerationRecord) (record.VerifiedRecord, error) {
			return v.VerifyRecord(ctx, rec), nil
		},
		func(_ int, rec record.VerifiedRecord) error {
			return w.Write(rec)
		},
	)
	if err != nil {
		return err
	}

	logger.Info("verification complete",
		slog.String("out", outputPath),
		slog.Int("records", w.Count()),
	)
	return nil
}

// runVerifyInjected judges injected variants against their reference
// answers. Every input is incorrect by construction; a reject verdict
// means the judge caught the planted error.
func runVerifyInjected(cmd *cobra.Command, args []string) error {
	if err := requireFlags("in", inputPath, "out", outputPath); err != nil {
		return err
	}

	o, cleanup, err := buildOracle(cfg.Oracle.Temperature)
	if err != nil {
		return err
	}
	defer cleanup()

	v := verify.NewVerifier(o, verify.WithLogger(logger.Logger))

	variants, skipped, err := record.ReadAll[record.InjectedVariant](inputPath, cfg.Run.Limit)
	if err != nil {
		return err
	}
	logSkipped("verify-injected", skipped)

	w, err := record.NewWriter(outputPath)
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Info("verifying injected variants",
		slog.Int("records", len(variants)),
		slog.Int("workers", cfg.Run.Workers),
		slog.String("model", cfg.Oracle.Model),
	)

	err = pool.Map(cmd.Context(), cfg.Run.Workers, variants,
		func(ctx context.Context, _ int, variant record.InjectedVariant) (record.InjectedVerifiedRecord, error) {
			return v.VerifyInjected(ctx, variant), nil
		},
		func(_ int, rec record.InjectedVerifiedRecord) error {
			return w.Write(rec)
		},
	)
	if err != nil {
		return err
	}

	logger.Info("injected verification complete",
		slog.String("out", outputPath),
		slog.Int("records", w.Count()),
	)
	return nil
}
