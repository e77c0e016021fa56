// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package taxonomy classifies rejected answers into domain-specific
// error taxonomies.
//
// Each domain taxonomy is an ordered list of (predicate, code) rules
// evaluated first-match-wins. The order is a design contract: rules are
// not mutually exclusive, so reordering them changes classifications.
// Every classifier ends in a catch-all code.
//
// The category sets come from three published error taxonomies:
// Li et al. 2024 for math (GSM8K), Dou et al. 2024 for code (MBPP),
// and Xu et al. 2025 for multi-domain attribution (TruthfulQA).
package taxonomy

// Domain selects one of the three taxonomies.
type Domain string

const (
	DomainMath        Domain = "math"
	DomainCode        Domain = "code"
	DomainAttribution Domain = "attr"
)

// CodeNone is the taxonomy code of accepted (non-error) verdicts.
const CodeNone = "none"

// NameNone is the taxonomy name paired with CodeNone.
const NameNone = "No error"

// mathNames maps math taxonomy codes to human-readable names.
var mathNames = map[string]string{
	"calc_error":       "Calculation error",
	"count_error":      "Counting error",
	"hallucination":    "Hallucination / fictitious statement",
	"missing_step":     "Missing step",
	"contradiction":    "Contradictory step",
	"wrong_formula":    "Wrong formula / concept",
	"misread":          "Problem misread / misparse",
	"format_violation": "Answer format violation",
	"other_reasoning":  "Other reasoning error",
}

// codeNames maps code taxonomy codes to human-readable names.
var codeNames = map[string]string{
	"syntax":           "Syntax bug",
	"runtime":          "Runtime/exception bug",
	"functional_wrong": "Functional logic wrong",
	"io_mismatch":      "I/O format mismatch",
	"edge_case":        "Edge-case not handled",
	"api_misuse":       "API/library misuse",
	"type_error":       "Type mismatch/annotation",
	"off_by_one":       "Off-by-one / indexing",
	"state_mutation":   "State/side-effect bug",
	"perf_timeout":     "Performance/time limit",
	"test_leak":        "Test leakage / cheating",
	"other_code":       "Other code bug",
}

// attrNames maps attribution taxonomy codes to human-readable names.
var attrNames = map[string]string{
	"factuality":       "Factual inaccuracy",
	"reasoning":        "Reasoning flaw",
	"relevance":        "Irrelevant / off-topic",
	"completeness":     "Incomplete answer",
	"instruction_miss": "Instruction not followed",
	"style_register":   "Stylistic/hedged reply instead of facts",
	"unsupported":      "Unsupported claim / no evidence",
	"ambiguity":        "Ambiguity handling issue",
	"other_attr":       "Other attribution",
}

// Name resolves a taxonomy code to its human-readable name within a
// domain. Unknown codes resolve to themselves, so a new rule code never
// produces an empty name.
func Name(domain Domain, code string) string {
	if code == CodeNone {
		return NameNone
	}
	var names map[string]string
	switch domain {
	case DomainMath:
		names = mathNames
	case DomainCode:
		names = codeNames
	default:
		names = attrNames
	}
	if name, ok := names[code]; ok {
		return name
	}
	return code
}
