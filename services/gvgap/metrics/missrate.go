// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package metrics

import (
	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

// MissRateBucket is the judge's miss rate for one perturbation strategy.
// Every injected item is incorrect by construction, so the breakdown
// collapses to caught-vs-missed: miss rate is the false negative rate.
type MissRateBucket struct {
	ErrorType record.ErrorType `json:"error_type"`
	Total     int              `json:"total"`
	Caught    int              `json:"caught"`
	MissRate  float64          `json:"miss_rate"`
}

// MissRate accumulates per-error-type catch counts for the
// injected-error evaluation path. Not safe for concurrent use.
type MissRate struct {
	totals map[record.ErrorType]int
	caught map[record.ErrorType]int
	order  []record.ErrorType
}

// NewMissRate creates an empty accumulator.
func NewMissRate() *MissRate {
	return &MissRate{
		totals: make(map[record.ErrorType]int),
		caught: make(map[record.ErrorType]int),
	}
}

// Add records one judged injected item. caught means the judge rejected
// the corrupted answer.
func (m *MissRate) Add(errType record.ErrorType, caught bool) {
	if _, seen := m.totals[errType]; !seen {
		m.order = append(m.order, errType)
	}
	m.totals[errType]++
	if caught {
		m.caught[errType]++
	}
}

// AddRecord records one verified injected record.
func (m *MissRate) AddRecord(rec record.InjectedVerifiedRecord) {
	m.Add(rec.ErrorType, rec.Verify.Label == record.LabelReject)
}

// Buckets returns per-error-type results in first-seen order.
func (m *MissRate) Buckets() []MissRateBucket {
	buckets := make([]MissRateBucket, 0, len(m.order))
	for _, et := range m.order {
		total := m.totals[et]
		caught := m.caught[et]
		buckets = append(buckets, MissRateBucket{
			ErrorType: et,
			Total:     total,
			Caught:    caught,
			MissRate:  1 - float64(caught)/float64(total),
		})
	}
	return buckets
}
