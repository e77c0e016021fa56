// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package taxonomy

import (
	"regexp"
	"strings"
)

// Input is the classification evidence for one rejected record. All text
// fields are matched case-insensitively; Rejected gates the rules that
// only fire on reject verdicts.
type Input struct {
	Rationale string
	Answer    string
	Question  string
	Rejected  bool
}

// Rule is one (predicate, code) pair in a classifier's ordered rule list.
type Rule struct {
	Code  string
	Match func(in Input) bool
}

// Classifier is an ordered first-match rule list with a catch-all code.
type Classifier struct {
	Domain   Domain
	Rules    []Rule
	CatchAll string
}

// Classify returns the code of the first matching rule, or the catch-all.
func (c Classifier) Classify(in Input) string {
	in.Rationale = strings.ToLower(in.Rationale)
	in.Answer = strings.ToLower(in.Answer)
	in.Question = strings.ToLower(in.Question)
	for _, r := range c.Rules {
		if r.Match(in) {
			return r.Code
		}
	}
	return c.CatchAll
}

// arithmeticOp matches any arithmetic operator left in an answer string,
// a strong signal the model emitted an expression instead of a value.
var arithmeticOp = regexp.MustCompile(`[-+*/]`)

func rationaleHas(terms ...string) func(Input) bool {
	return func(in Input) bool {
		for _, t := range terms {
			if strings.Contains(in.Rationale, t) {
				return true
			}
		}
		return false
	}
}

// mathClassifier matches on the rationale, and also on the answer and
// question text: arithmetic leftovers in the answer and counting or
// multi-step phrasing in the question carry signal the rationale lacks.
var mathClassifier = Classifier{
	Domain:   DomainMath,
	CatchAll: "other_reasoning",
	Rules: []Rule{
		{Code: "format_violation", Match: rationaleHas("format")},
		{Code: "calc_error", Match: func(in Input) bool {
			return arithmeticOp.MatchString(in.Answer) && in.Rejected
		}},
		{Code: "count_error", Match: func(in Input) bool {
			return strings.Contains(in.Question, "count") && in.Rejected
		}},
		{Code: "missing_step", Match: func(in Input) bool {
			return strings.Contains(in.Question, "step") &&
				!strings.Contains(in.Answer, "therefore") && in.Rejected
		}},
		{Code: "contradiction", Match: rationaleHas("contradict")},
		{Code: "misread", Match: rationaleHas("misread", "mis-parse", "misparse")},
	},
}

var codeClassifier = Classifier{
	Domain:   DomainCode,
	CatchAll: "other_code",
	Rules: []Rule{
		{Code: "syntax", Match: rationaleHas("syntax", "parse")},
		{Code: "runtime", Match: rationaleHas("exception", "traceback")},
		{Code: "functional_wrong", Match: rationaleHas("wrong output", "failed test")},
		{Code: "io_mismatch", Match: rationaleHas("stdin", "stdout", "format")},
		{Code: "edge_case", Match: rationaleHas("edge case")},
		{Code: "api_misuse", Match: rationaleHas("api", "library")},
		{Code: "type_error", Match: rationaleHas("type")},
		{Code: "off_by_one", Match: rationaleHas("index", "off-by-one")},
		{Code: "state_mutation", Match: rationaleHas("state", "side effect")},
		{Code: "perf_timeout", Match: rationaleHas("timeout", "time limit", "performance")},
		{Code: "test_leak", Match: rationaleHas("leak")},
	},
}

var attrClassifier = Classifier{
	Domain:   DomainAttribution,
	CatchAll: "other_attr",
	Rules: []Rule{
		{Code: "factuality", Match: rationaleHas("factual", "incorrect fact")},
		{Code: "instruction_miss", Match: rationaleHas("instruction", "did not follow", "format")},
		{Code: "completeness", Match: rationaleHas("incomplete", "missing")},
		{Code: "relevance", Match: rationaleHas("irrelevant", "off-topic")},
		{Code: "reasoning", Match: rationaleHas("reasoning", "logic")},
		{Code: "style_register", Match: rationaleHas("style", "stylistic", "weak reply")},
		{Code: "unsupported", Match: rationaleHas("unsupported", "no evidence")},
		{Code: "ambiguity", Match: rationaleHas("ambiguous")},
	},
}
