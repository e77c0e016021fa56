// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package generate produces chain-of-thought answer candidates for
// problems via the oracle capability.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/AleutianAI/gvgap/services/gvgap/oracle"
	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

// solverSystemPrompt instructs the model to reason stepwise and mark the
// final answer so ParseFinal can extract it.
const solverSystemPrompt = "You are a careful problem solver. Show steps briefly and end with 'Final: <answer>'."

// finalPattern extracts the marked final answer from a reasoning trace.
var finalPattern = regexp.MustCompile(`Final:\s*(.+)`)

// Messages builds the generation prompt for one question.
func Messages(question string) []oracle.Message {
	return []oracle.Message{
		{Role: oracle.RoleSystem, Content: solverSystemPrompt},
		{Role: oracle.RoleUser, Content: fmt.Sprintf(
			"Question: %s\nSolve step by step. Conclude with 'Final: <answer>'.", question,
		)},
	}
}

// ParseFinal extracts the final answer from a reasoning trace, falling
// back to the whole trimmed text when the model skipped the marker.
func ParseFinal(text string) string {
	if m := finalPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Generator produces n candidate answers per problem.
//
// Each candidate comes from one oracle invocation; sampling diversity is
// the oracle client's temperature, recorded in the GeneratorInfo stamped
// onto every record. Candidate 0 doubles as the canonical main answer.
type Generator struct {
	oracle  oracle.Oracle
	info    record.GeneratorInfo
	logger  *slog.Logger
}

// NewGenerator creates a Generator. info describes the provider/model
// configuration of the supplied oracle and is recorded verbatim.
func NewGenerator(o oracle.Oracle, info record.GeneratorInfo, opts ...GeneratorOption) *Generator {
	if info.NSamples < 1 {
		info.NSamples = 1
	}
	g := &Generator{oracle: o, info: info, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateRecord produces one generation record for a problem.
//
// Oracle failures are returned as typed errors, never embedded in the
// answer text; the caller decides whether the run can continue.
func (g *Generator) GenerateRecord(ctx context.Context, p record.Problem) (record.GenerationRecord, error) {
	candidates := make([]record.Candidate, 0, g.info.NSamples)
	messages := Messages(p.Question)

	for i := 0; i < g.info.NSamples; i++ {
		resp, err := g.oracle.Invoke(ctx, messages)
		if err != nil {
			return record.GenerationRecord{}, fmt.Errorf("generate %s sample %d: %w", p.ID, i+1, err)
		}
		candidates = append(candidates, record.Candidate{
			CoT:            resp.Text,
			Answer:         ParseFinal(resp.Text),
			LatencySeconds: math.Round(resp.Latency.Seconds()*1000) / 1000,
			TokensIn:       resp.Usage.TokensIn,
			TokensOut:      resp.Usage.TokensOut,
		})
	}

	gen, err := record.NewGeneration(candidates)
	if err != nil {
		return record.GenerationRecord{}, err
	}
	return record.GenerationRecord{
		ID:        p.ID,
		Domain:    p.Domain,
		Dataset:   p.Dataset,
		Split:     p.Split,
		Question:  p.Question,
		Generator: g.info,
		Gen:       gen,
	}, nil
}
