// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package verify

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/AleutianAI/gvgap/services/gvgap/oracle"
	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

// judgeInstruction tells the judge the exact response shape the parser
// expects. Kept on one line so it survives provider-side whitespace
// normalization.
const judgeInstruction = `Return JSON: {"label":"accept|reject","confidence":0.xx,"rationale":"..."}`

// judgeSystemPrompt frames the judge role for generated-answer review.
const judgeSystemPrompt = "You judge if a final answer is correct."

// injectedSystemPrompt frames the judge role for the injected-error path,
// where the reference answer is available for comparison.
const injectedSystemPrompt = "You are a strict math verifier. " +
	"Decide if the candidate answer matches the correct final answer."

// JudgeMessages builds the judgment prompt for one candidate. The
// reasoning trace may be empty.
func JudgeMessages(question, answer, cot string) []oracle.Message {
	return []oracle.Message{
		{Role: oracle.RoleSystem, Content: judgeSystemPrompt},
		{Role: oracle.RoleUser, Content: fmt.Sprintf(
			"Question: %s\nFinal answer: %s\nSteps (may be empty):\n%s\n%s",
			question, answer, cot, judgeInstruction,
		)},
	}
}

// InjectedJudgeMessages builds the judgment prompt for an injected
// variant, where the reference answer is part of the prompt.
func InjectedJudgeMessages(question, candidate, reference string) []oracle.Message {
	return []oracle.Message{
		{Role: oracle.RoleSystem, Content: injectedSystemPrompt},
		{Role: oracle.RoleUser, Content: fmt.Sprintf(
			"Question: %s\n\nReference (ground truth) final answer: %s\nCandidate answer to verify: %s\n\n"+
				"Decide if the candidate equals the reference (numerically). %s",
			question, reference, candidate, judgeInstruction,
		)},
	}
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) VerifierOption {
	return func(v *Verifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// Verifier produces one validated Verification per candidate by invoking
// the judgment oracle and parsing its output.
//
// The oracle is a pure capability dependency: any implementation that
// returns text for prompts works, which is how the tests drive the
// verifier without a provider. Oracle failures (after the client's own
// retries) degrade to the parser's fail-safe reject verdict rather than
// aborting the run.
type Verifier struct {
	oracle oracle.Oracle
	logger *slog.Logger
}

// NewVerifier creates a Verifier over the given oracle.
func NewVerifier(o oracle.Oracle, opts ...VerifierOption) *Verifier {
	v := &Verifier{oracle: o, logger: slog.Default()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyCandidate judges one candidate answer for a question.
func (v *Verifier) VerifyCandidate(ctx context.Context, question string, cand record.Candidate) record.Verification {
	return v.judge(ctx, JudgeMessages(question, cand.Answer, cand.CoT))
}

// VerifyRecord judges every candidate of a generation record and returns
// the verified record: a single verdict for single-sample records, an
// aggregate plus per-candidate verdicts otherwise.
func (v *Verifier) VerifyRecord(ctx context.Context, rec record.GenerationRecord) record.VerifiedRecord {
	candidates := rec.Gen.Candidates()

	if !rec.Gen.MultiSample() {
		verdict := v.VerifyCandidate(ctx, rec.Question, rec.Gen.Main())
		return record.VerifiedRecord{
			GenerationRecord: rec,
			Verify:           record.SingleVerification(verdict),
		}
	}

	verdicts := make([]record.Verification, 0, len(candidates))
	for i, cand := range candidates {
		v.logger.Debug("verifying candidate",
			slog.String("id", rec.ID),
			slog.Int("candidate", i+1),
			slog.Int("of", len(candidates)),
		)
		verdicts = append(verdicts, v.VerifyCandidate(ctx, rec.Question, cand))
	}

	return record.VerifiedRecord{
		GenerationRecord: rec,
		Verify:           record.AggregatedVerification(Aggregate(verdicts), verdicts),
	}
}

// VerifyInjected judges the corrupted answer of an injected variant
// against its reference.
func (v *Verifier) VerifyInjected(ctx context.Context, variant record.InjectedVariant) record.InjectedVerifiedRecord {
	verdict := v.judge(ctx, InjectedJudgeMessages(variant.Question, variant.CorruptedAnswer, variant.ReferenceAnswer))
	return record.InjectedVerifiedRecord{
		InjectedVariant: variant,
		Verify:          verdict,
	}
}

// judge runs one oracle call through the judgment parser, stamping the
// measured latency onto the verdict.
func (v *Verifier) judge(ctx context.Context, messages []oracle.Message) record.Verification {
	resp, err := v.oracle.Invoke(ctx, messages)
	if err != nil {
		v.logger.Warn("oracle invocation failed, recording fail-safe reject",
			slog.String("error", err.Error()),
		)
		return record.Verification{
			Label:      record.LabelReject,
			Confidence: 0.0,
			Rationale:  "oracle failure: " + err.Error(),
		}
	}

	verdict := ParseJudgment(resp.Text)
	verdict.LatencySeconds = roundSeconds(resp.Latency.Seconds())
	return verdict
}

// roundSeconds rounds a latency to millisecond precision.
func roundSeconds(s float64) float64 {
	return math.Round(s*1000) / 1000
}
