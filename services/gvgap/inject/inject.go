// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package inject synthesizes controlled incorrect answers from reference
// problems.
//
// Every variant the injector emits is ground-truth incorrect by
// construction, which gives the verification stages a stream whose
// correctness labels are known without any oracle call. The injector is
// deterministic for a fixed seed and input order; that property is part
// of its contract and is covered by tests, not incidental.
package inject

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strconv"

	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

// numberPattern matches an optionally signed, optionally decimal literal.
// The injector perturbs the rightmost match in the reference answer.
var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ExtractNumber returns the rightmost numeric literal in s.
// The second return is false when s contains no number.
func ExtractNumber(s string) (float64, bool) {
	matches := numberPattern.FindAllString(s, -1)
	if len(matches) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(matches[len(matches)-1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatNumber renders integral values without a decimal point and
// non-integral values with full precision.
func FormatNumber(x float64) string {
	if x == math.Trunc(x) && !math.IsInf(x, 0) {
		return strconv.FormatInt(int64(x), 10)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Injector produces corrupted answer variants from reference problems.
//
// The random source is threaded in explicitly rather than taken from the
// global generator, so two injectors with equal seeds produce identical
// variant streams and separate injectors can run in parallel.
type Injector struct {
	rng *rand.Rand
}

// New creates an Injector over the given seed.
func New(seed int64) *Injector {
	return &Injector{rng: rand.New(rand.NewSource(seed))}
}

// perturb applies one strategy to x. sign_flip of 0 would land back on
// the reference value, so zero references route to off_by_one instead;
// an emitted variant must never equal its reference.
func (in *Injector) perturb(x float64, strategy record.ErrorType) (float64, record.ErrorType) {
	if strategy == record.ErrorSignFlip && x == 0 {
		strategy = record.ErrorOffByOne
	}
	switch strategy {
	case record.ErrorOffByOne:
		if in.rng.Float64() < 0.5 {
			return x + 1, strategy
		}
		return x - 1, strategy
	case record.ErrorSignFlip:
		return -x, strategy
	default:
		deltas := [4]float64{2, -2, 3, -3}
		return x + deltas[in.rng.Intn(len(deltas))], record.ErrorSmallPerturb
	}
}

// pickStrategy selects one of the three strategies uniformly.
func (in *Injector) pickStrategy() record.ErrorType {
	switch in.rng.Intn(3) {
	case 0:
		return record.ErrorOffByOne
	case 1:
		return record.ErrorSignFlip
	default:
		return record.ErrorSmallPerturb
	}
}

// Variants emits k corrupted variants for one problem.
//
// Problems whose reference answer carries no numeric literal yield a nil
// slice and false; the caller counts and reports the skip. Variant IDs are
// "<problem id>::v<j>" with j starting at 1.
func (in *Injector) Variants(p record.Problem, k int) ([]record.InjectedVariant, bool) {
	ref, ok := ExtractNumber(p.ReferenceAnswer)
	if !ok {
		return nil, false
	}

	variants := make([]record.InjectedVariant, 0, k)
	for j := 1; j <= k; j++ {
		corrupted, errType := in.perturb(ref, in.pickStrategy())
		variants = append(variants, record.InjectedVariant{
			ID:              fmt.Sprintf("%s::v%d", p.ID, j),
			Question:        p.Question,
			ReferenceAnswer: FormatNumber(ref),
			CorruptedAnswer: FormatNumber(corrupted),
			ErrorInjected:   1,
			ErrorType:       errType,
		})
	}
	return variants, true
}
