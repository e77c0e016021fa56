// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package metrics computes the comparative accuracy figures of the
// pipeline: generation accuracy, verification accuracy, their difference
// (the GV-Gap), the accept/reject confusion breakdown, and per-error-type
// miss rates for the injected path.
package metrics

import (
	"math"
	"strings"

	"github.com/AleutianAI/gvgap/services/gvgap/inject"
)

// AnswersEqual is the baseline generation-correctness contract:
// whitespace-trimmed, case-insensitive exact string equality. Richer
// comparison (units, fractions) is the caller's to layer on top.
func AnswersEqual(generated, reference string) bool {
	return strings.EqualFold(strings.TrimSpace(generated), strings.TrimSpace(reference))
}

// numericTolerance is the relative and absolute tolerance for numeric
// equality. Matches comparisons of decimal answers that round-trip
// through text.
const numericTolerance = 1e-9

// NumericallyEqual compares the rightmost numeric literals of both
// strings within tolerance. It returns false when either side carries no
// number; the caller counts such records as skipped, not failed.
func NumericallyEqual(a, b string) (equal, comparable bool) {
	x, okA := inject.ExtractNumber(a)
	y, okB := inject.ExtractNumber(b)
	if !okA || !okB {
		return false, false
	}
	diff := math.Abs(x - y)
	scale := math.Max(math.Abs(x), math.Abs(y))
	return diff <= numericTolerance || diff <= numericTolerance*scale, true
}
