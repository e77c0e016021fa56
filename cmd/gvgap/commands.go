// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"

	"github.com/AleutianAI/gvgap/cmd/gvgap/config"
	"github.com/AleutianAI/gvgap/pkg/logging"
)

// --- Global Command Variables ---
var (
	configPath string
	inputPath  string
	outputPath string
	logLevel   string
	quiet      bool

	// Stage flag overrides; -1 / empty means "use the config value".
	flagWorkers  int
	flagLimit    int
	flagSamples  int
	flagSeed     int64
	flagVariants int
	flagProvider string
	flagModel    string

	// dataset prepare
	rawPath     string
	datasetName string
	domainName  string
	splitName   string

	// metrics gap
	problemsPath string
	csvPath      string
	summaryPath  string
	jsonOut      bool

	cfg    config.Config
	logger *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "gvgap",
		Short: "A cli to measure the generation-verification gap of language models",
		Long: `gvgap runs staged evaluations that compare how well a model
generates answers against how well it verifies them. Stages exchange
JSONL record streams so each one can be re-run independently.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupRun, // Defined in helpers.go
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Close()
			}
		},
	}

	// --- Dataset ---
	datasetCmd = &cobra.Command{
		Use:   "dataset",
		Short: "Prepare reference problem streams",
	}
	datasetPrepareCmd = &cobra.Command{
		Use:   "prepare",
		Short: "Convert a raw benchmark file into a problem stream",
		RunE:  runDatasetPrepare, // Defined in cmd_dataset.go
	}

	// --- Inject ---
	injectCmd = &cobra.Command{
		Use:   "inject",
		Short: "Synthesize ground-truth-incorrect answer variants from problems",
		RunE:  runInject, // Defined in cmd_inject.go
	}

	// --- Generate ---
	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate chain-of-thought answer candidates for problems",
		RunE:  runGenerate, // Defined in cmd_generate.go
	}

	// --- Verify ---
	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Judge answer streams with the verification oracle",
	}
	verifyGenerationsCmd = &cobra.Command{
		Use:   "generations",
		Short: "Judge generated answers and aggregate multi-sample verdicts",
		RunE:  runVerifyGenerations, // Defined in cmd_verify.go
	}
	verifyInjectedCmd = &cobra.Command{
		Use:   "injected",
		Short: "Judge injected variants against their reference answers",
		RunE:  runVerifyInjected, // Defined in cmd_verify.go
	}

	// --- Tag ---
	tagCmd = &cobra.Command{
		Use:   "tag",
		Short: "Classify rejected verdicts into a domain error taxonomy",
		RunE:  runTag, // Defined in cmd_tag.go
	}

	// --- Metrics ---
	metricsCmd = &cobra.Command{
		Use:   "metrics",
		Short: "Compute evaluation metrics from verified streams",
	}
	metricsGapCmd = &cobra.Command{
		Use:   "gap",
		Short: "Compute the generation-verification gap and confusion breakdown",
		RunE:  runMetricsGap, // Defined in cmd_metrics.go
	}
	metricsMissRateCmd = &cobra.Command{
		Use:   "missrate",
		Short: "Compute per-error-type miss rates on the injected path",
		RunE:  runMetricsMissRate, // Defined in cmd_metrics.go
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "path to gvgap.yaml (default: ./gvgap.yaml, ~/.gvgap/gvgap.yaml)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress log output on stderr")

	for _, c := range []*cobra.Command{
		injectCmd, generateCmd, verifyGenerationsCmd, verifyInjectedCmd,
		tagCmd, metricsGapCmd, metricsMissRateCmd, datasetPrepareCmd,
	} {
		c.Flags().StringVarP(&inputPath, "in", "i", "", "input JSONL stream")
		c.Flags().StringVarP(&outputPath, "out", "o", "", "output path")
		c.Flags().IntVar(&flagLimit, "limit", -1, "max input records to process (0 = all)")
	}

	for _, c := range []*cobra.Command{generateCmd, verifyGenerationsCmd, verifyInjectedCmd} {
		c.Flags().IntVar(&flagWorkers, "workers", -1, "worker pool size")
		c.Flags().StringVar(&flagProvider, "provider", "", "oracle provider: openai or together")
		c.Flags().StringVar(&flagModel, "model", "", "oracle model identifier")
	}

	generateCmd.Flags().IntVar(&flagSamples, "samples", -1, "candidates to generate per question")

	injectCmd.Flags().Int64Var(&flagSeed, "seed", -1, "random seed for the injector")
	injectCmd.Flags().IntVar(&flagVariants, "variants", -1, "corrupted variants per problem")

	datasetPrepareCmd.Flags().StringVar(&rawPath, "raw", "", "raw benchmark JSON file (omit to use the bundled sample)")
	datasetPrepareCmd.Flags().StringVar(&datasetName, "dataset", "gsm8k", "dataset name, drives taxonomy routing")
	datasetPrepareCmd.Flags().StringVar(&domainName, "domain", "math", "problem domain")
	datasetPrepareCmd.Flags().StringVar(&splitName, "split", "test", "dataset split label")

	metricsGapCmd.Flags().StringVar(&problemsPath, "problems", "", "reference problem stream with gold answers")
	metricsGapCmd.Flags().StringVar(&csvPath, "csv", "", "write the per-question detail CSV here")
	metricsGapCmd.Flags().StringVar(&summaryPath, "summary", "", "write the text summary here (default: stdout)")
	metricsGapCmd.Flags().BoolVar(&jsonOut, "json", false, "print the snapshot as JSON instead of text")
	metricsMissRateCmd.Flags().BoolVar(&jsonOut, "json", false, "print buckets as JSON instead of a table")

	datasetCmd.AddCommand(datasetPrepareCmd)
	verifyCmd.AddCommand(verifyGenerationsCmd, verifyInjectedCmd)
	metricsCmd.AddCommand(metricsGapCmd, metricsMissRateCmd)
	rootCmd.AddCommand(datasetCmd, injectCmd, generateCmd, verifyCmd, tagCmd, metricsCmd)
}
