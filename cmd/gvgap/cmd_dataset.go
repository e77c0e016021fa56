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

	"github.com/AleutianAI/gvgap/services/gvgap/dataset"
	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

// runDatasetPrepare converts a raw benchmark file into the problem
// stream the other stages consume. Without --raw it emits the bundled
// sample problems so the pipeline can be exercised end to end.
func runDatasetPrepare(cmd *cobra.Command, args []string) error {
	if err := requireFlags("out", outputPath); err != nil {
		return err
	}

	raw := dataset.Sample
	if rawPath != "" {
		var err error
		raw, err = dataset.LoadRaw(rawPath)
		if err != nil {
			return err
		}
	}

	problems := dataset.Convert(raw, datasetName, domainName, splitName)
	if cfg.Run.Limit > 0 && len(problems) > cfg.Run.Limit {
		problems = problems[:cfg.Run.Limit]
	}

	w, err := record.NewWriter(outputPath)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, p := range problems {
		if err := w.Write(p); err != nil {
			return err
		}
	}

	logger.Info("prepared problem stream",
		slog.String("dataset", datasetName),
		slog.String("out", outputPath),
		slog.Int("problems", w.Count()),
	)
	return nil
}
