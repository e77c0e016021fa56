// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package verify turns raw judge output into validated verdicts and
// combines per-candidate verdicts into aggregate decisions.
package verify

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

// judgmentWire is the JSON body the judge is instructed to return.
// Confidence is declared as any because judges routinely quote numbers.
type judgmentWire struct {
	Label      string `json:"label"`
	Confidence any    `json:"confidence"`
	Rationale  string `json:"rationale"`
}

// ParseJudgment validates raw judge text into a Verification.
//
// The parser fails safe: on any malformed structure, unrecognized label,
// or non-numeric confidence it returns {reject, 0.0} with a diagnostic
// rationale. An unparseable judgment must never read as acceptance.
// Confidence is clamped into [0, 1] whatever the judge reported.
func ParseJudgment(text string) record.Verification {
	body, ok := extractJSON(text)
	if !ok {
		return failSafe("no JSON object in judgment text")
	}

	var w judgmentWire
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return failSafe(fmt.Sprintf("invalid JSON: %v", err))
	}

	label := record.Label(strings.ToLower(strings.TrimSpace(w.Label)))
	if !label.Valid() {
		return failSafe(fmt.Sprintf("invalid label: %q", w.Label))
	}

	conf, err := coerceConfidence(w.Confidence)
	if err != nil {
		return failSafe(err.Error())
	}

	return record.Verification{
		Label:      label,
		Confidence: clamp01(conf),
		Rationale:  w.Rationale,
	}
}

// failSafe is the reject-by-default verdict with a diagnostic rationale.
func failSafe(reason string) record.Verification {
	return record.Verification{
		Label:      record.LabelReject,
		Confidence: 0.0,
		Rationale:  "invalid judgment: " + reason,
	}
}

// extractJSON returns the outermost {...} span in text. Judges wrap their
// JSON in prose or markdown fences often enough that strict whole-string
// parsing would reject usable verdicts.
func extractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// coerceConfidence accepts a JSON number or a numeric string.
func coerceConfidence(v any) (float64, error) {
	switch c := v.(type) {
	case float64:
		return c, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return 0, fmt.Errorf("non-numeric confidence: %q", c)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("missing confidence")
	default:
		return 0, fmt.Errorf("non-numeric confidence: %v", v)
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
