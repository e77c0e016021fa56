// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package dataset converts raw benchmark problems into the standard
// Problem record format consumed by the pipeline.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

// RawProblem is the upstream GSM8K shape: a question plus a worked
// answer ending in "#### <final answer>".
type RawProblem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// answerMarker separates the worked solution from the final answer in
// GSM8K answer text.
const answerMarker = "####"

// Convert turns raw problems into Problem records with IDs
// "<dataset>/<split>/<i>". The gold reasoning keeps everything before
// the marker; answers without a marker get reference "Unknown", matching
// the upstream convention for unparseable items.
func Convert(raw []RawProblem, datasetName, domain, split string) []record.Problem {
	problems := make([]record.Problem, 0, len(raw))
	for i, rp := range raw {
		reference := "Unknown"
		goldCoT := rp.Answer
		if idx := strings.LastIndex(rp.Answer, answerMarker); idx >= 0 {
			reference = strings.TrimSpace(rp.Answer[idx+len(answerMarker):])
			goldCoT = strings.TrimSpace(rp.Answer[:idx])
		}
		problems = append(problems, record.Problem{
			ID:              fmt.Sprintf("%s/%s/%d", strings.ToLower(datasetName), split, i),
			Domain:          domain,
			Dataset:         datasetName,
			Split:           split,
			Question:        rp.Question,
			ReferenceAnswer: reference,
			GoldCoT:         goldCoT,
			Metadata:        map[string]any{"source": "sample"},
		})
	}
	return problems
}

// LoadRaw reads a JSON array of raw problems.
func LoadRaw(path string) ([]RawProblem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read raw dataset %s: %w", path, err)
	}
	var raw []RawProblem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode raw dataset %s: %w", path, err)
	}
	return raw, nil
}

// Sample is a small bundled GSM8K excerpt for smoke runs without any
// dataset download.
var Sample = []RawProblem{
	{
		Question: "Natalia sold clips to 48 of her friends in April, and then she sold half as many clips in May. How many clips did Natalia sell altogether in April and May?",
		Answer:   "Natalia sold 48/2 = 24 clips in May.\nNatalia sold 48+24 = 72 clips altogether in April and May.\n#### 72",
	},
	{
		Question: "Weng earns $12 an hour for babysitting. Yesterday, she just did 50 minutes of babysitting. How much did she earn?",
		Answer:   "Weng earns 12/60 = $0.2 per minute.\nWorking 50 minutes, she earned 0.2 x 50 = $10.\n#### 10",
	},
	{
		Question: "Betty is saving money for a new wallet which costs $100. Betty has only half of the money she needs. Her parents decided to give her $15 for that purpose, and her grandparents twice as much as her parents. How much more money does Betty need to buy the wallet?",
		Answer:   "In the beginning, Betty has only 100/2 = $50.\nBetty's grandparents gave her 15 * 2 = $30.\nThis means, Betty needs 100 - 50 - 15 - 30 = $5 more.\n#### 5",
	},
}
