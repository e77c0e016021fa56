// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads and validates the gvgap CLI configuration.
//
// Configuration comes from a YAML file with sane defaults for every
// field; command-line flags override individual values after loading.
// API keys are never part of the file and are read from the environment
// at oracle construction time.
package config

import (
	"fmt"
	"os"
)

// Config is the top-level CLI configuration.
type Config struct {
	// Oracle configures the language model backend shared by the
	// generation and verification stages.
	Oracle OracleConfig `yaml:"oracle"`

	// Run configures pipeline execution: concurrency, sampling, seeds.
	Run RunConfig `yaml:"run"`

	// Logging configures log output.
	Logging LoggingConfig `yaml:"logging"`
}

// OracleConfig selects and tunes the model provider.
type OracleConfig struct {
	// Provider is "openai" or "together".
	Provider string `yaml:"provider" validate:"required,oneof=openai together"`

	// Model is the provider's model identifier.
	Model string `yaml:"model" validate:"required"`

	// Temperature is the sampling temperature for judge calls.
	// Generation uses SolveTemperature when sampling multiple candidates.
	Temperature float32 `yaml:"temperature" validate:"gte=0,lte=2"`

	// SolveTemperature is the sampling temperature for multi-sample
	// generation, where candidates must diverge.
	SolveTemperature float32 `yaml:"solve_temperature" validate:"gte=0,lte=2"`

	// MaxTokens caps completion length; 0 lets the provider decide.
	MaxTokens int `yaml:"max_tokens" validate:"gte=0"`

	// TimeoutSeconds bounds a single API call.
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"gte=1,lte=600"`

	// Retries is the number of retries after the first attempt.
	Retries int `yaml:"retries" validate:"gte=0,lte=10"`

	// RateLimitQPS bounds outgoing calls per second across all workers.
	// 0 disables limiting.
	RateLimitQPS float64 `yaml:"rate_limit_qps" validate:"gte=0"`

	// CacheDir enables on-disk response caching when non-empty.
	CacheDir string `yaml:"cache_dir"`
}

// RunConfig tunes pipeline execution.
type RunConfig struct {
	// Workers is the worker pool size for oracle-bound stages.
	Workers int `yaml:"workers" validate:"gte=1,lte=256"`

	// NSamples is the number of candidates generated per question.
	NSamples int `yaml:"n_samples" validate:"gte=1,lte=32"`

	// Seed drives the error injector's random source.
	Seed int64 `yaml:"seed"`

	// VariantsPerProblem is the number of corrupted variants the
	// injector emits per problem.
	VariantsPerProblem int `yaml:"variants_per_problem" validate:"gte=1,lte=16"`

	// Limit caps how many input records a stage processes; 0 means all.
	Limit int `yaml:"limit" validate:"gte=0"`
}

// LoggingConfig tunes log output.
type LoggingConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`

	// Dir enables file logging to the given directory.
	Dir string `yaml:"dir"`

	// JSON switches stderr output to JSON format.
	JSON bool `yaml:"json"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Oracle: OracleConfig{
			Provider:         "together",
			Model:            "meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo",
			Temperature:      0,
			SolveTemperature: 0.7,
			MaxTokens:        512,
			TimeoutSeconds:   60,
			Retries:          2,
		},
		Run: RunConfig{
			Workers:            4,
			NSamples:           1,
			Seed:               42,
			VariantsPerProblem: 2,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// APIKeyEnv returns the environment variable holding the provider's
// credential.
func (o OracleConfig) APIKeyEnv() string {
	switch o.Provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "together":
		return "TOGETHER_API_KEY"
	default:
		return ""
	}
}

// APIKey reads the provider credential from the environment.
func (o OracleConfig) APIKey() (string, error) {
	env := o.APIKeyEnv()
	if env == "" {
		return "", fmt.Errorf("no credential variable known for provider %q", o.Provider)
	}
	key := os.Getenv(env)
	if key == "" {
		return "", fmt.Errorf("%s is not set; export the %s API key", env, o.Provider)
	}
	return key, nil
}
