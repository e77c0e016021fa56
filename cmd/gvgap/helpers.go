// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/gvgap/cmd/gvgap/config"
	"github.com/AleutianAI/gvgap/pkg/logging"
	"github.com/AleutianAI/gvgap/services/gvgap/oracle"
)

// setupRun loads configuration, applies flag overrides, and builds the
// run logger. Runs before every subcommand.
func setupRun(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	applyOverrides()

	level := logging.ParseLevel(cfg.Logging.Level)
	if logLevel != "" {
		level = logging.ParseLevel(logLevel)
	}
	logger, err = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: "gvgap",
		JSON:    cfg.Logging.JSON,
		Quiet:   quiet,
	})
	if err != nil {
		// Keep going on the stderr fallback; a dead log dir is not fatal.
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}
	return nil
}

// applyOverrides folds explicit command-line flags over the loaded
// config. Sentinel values (-1, empty) mean the flag was not given.
func applyOverrides() {
	if flagWorkers > 0 {
		cfg.Run.Workers = flagWorkers
	}
	if flagLimit >= 0 {
		cfg.Run.Limit = flagLimit
	}
	if flagSamples > 0 {
		cfg.Run.NSamples = flagSamples
	}
	if flagSeed >= 0 {
		cfg.Run.Seed = flagSeed
	}
	if flagVariants > 0 {
		cfg.Run.VariantsPerProblem = flagVariants
	}
	if flagProvider != "" {
		cfg.Oracle.Provider = flagProvider
	}
	if flagModel != "" {
		cfg.Oracle.Model = flagModel
	}
}

// buildOracle constructs the configured oracle client, wrapped in the
// response cache when one is configured. The returned cleanup must be
// called once the run is done.
func buildOracle(temperature float32) (oracle.Oracle, func() error, error) {
	key, err := cfg.Oracle.APIKey()
	if err != nil {
		return nil, nil, err
	}

	client, err := oracle.NewClient(cfg.Oracle.Provider, cfg.Oracle.Model, key,
		oracle.WithTemperature(temperature),
		oracle.WithMaxTokens(cfg.Oracle.MaxTokens),
		oracle.WithTimeout(time.Duration(cfg.Oracle.TimeoutSeconds)*time.Second),
		oracle.WithRetries(cfg.Oracle.Retries),
		oracle.WithRateLimit(cfg.Oracle.RateLimitQPS),
		oracle.WithLogger(logger.Logger),
	)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Oracle.CacheDir == "" {
		return client, func() error { return nil }, nil
	}

	cache, err := oracle.NewCache(client, oracle.CacheConfig{
		Dir:       cfg.Oracle.CacheDir,
		Namespace: cfg.Oracle.Provider + "/" + cfg.Oracle.Model,
		Logger:    logger.Logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return cache, cache.Close, nil
}

// requireFlags fails with a usage-style error when a required flag value
// is missing.
func requireFlags(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("--%s is required", pairs[i])
		}
	}
	return nil
}

// openOutput returns the output destination plus its closer: the named
// file, or stdout (with a no-op closer) when path is empty.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}

// logSkipped warns when a stream contained malformed lines.
func logSkipped(stage string, skipped int) {
	if skipped > 0 {
		logger.Warn("skipped malformed input lines",
			slog.String("stage", stage),
			slog.Int("count", skipped),
		)
	}
}
