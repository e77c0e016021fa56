// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package taxonomy

import (
	"strings"

	"github.com/AleutianAI/gvgap/services/gvgap/record"
)

// ForDataset routes a dataset name to its classifier by prefix:
// gsm8k* selects math, mbpp* selects code, anything else attribution.
func ForDataset(dataset string) Classifier {
	s := strings.ToLower(dataset)
	switch {
	case strings.HasPrefix(s, "gsm8k"):
		return mathClassifier
	case strings.HasPrefix(s, "mbpp"):
		return codeClassifier
	default:
		return attrClassifier
	}
}

// Tag classifies one verified record into a tagged record.
//
// Accepted verdicts are tagged "none"/"No error" without evaluating any
// classifier; only rejects carry an error to explain.
func Tag(rec record.VerifiedRecord) record.TaggedRecord {
	label, _ := rec.Verify.Decision()
	if label != record.LabelReject {
		return record.TaggedRecord{
			VerifiedRecord: rec,
			TaxonomyCode:   CodeNone,
			TaxonomyName:   NameNone,
		}
	}

	c := ForDataset(rec.Dataset)
	code := c.Classify(Input{
		Rationale: rec.Verify.Rationale(),
		Answer:    rec.Gen.Main().Answer,
		Question:  rec.Question,
		Rejected:  true,
	})
	return record.TaggedRecord{
		VerifiedRecord: rec,
		TaxonomyCode:   code,
		TaxonomyName:   Name(c.Domain, code),
	}
}
