// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package record

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLines(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stream.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestForEach_SkipsMalformedLines(t *testing.T) {
	path := writeLines(t,
		`{"id":"a","question":"q1","reference_answer":"1"}`,
		`{not json`,
		``,
		`{"id":"b","question":"q2","reference_answer":"2"}`,
	)

	var ids []string
	skipped, err := ForEach(path, 0, func(_ int, p Problem) error {
		ids = append(ids, p.ID)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("ids = %v, want [a b]", ids)
	}
}

func TestForEach_Limit(t *testing.T) {
	path := writeLines(t,
		`{"id":"a","question":"q","reference_answer":"1"}`,
		`{"id":"b","question":"q","reference_answer":"2"}`,
		`{"id":"c","question":"q","reference_answer":"3"}`,
	)

	count := 0
	if _, err := ForEach(path, 2, func(int, Problem) error { count++; return nil }); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("processed %d records, want 2", count)
	}
}

func TestForEach_MissingFile(t *testing.T) {
	_, err := ForEach(filepath.Join(t.TempDir(), "nope.jsonl"), 0, func(int, Problem) error { return nil })
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("error = %v, want ErrMissingInput", err)
	}
}

func TestForEach_CallbackErrorAborts(t *testing.T) {
	path := writeLines(t,
		`{"id":"a","question":"q","reference_answer":"1"}`,
		`{"id":"b","question":"q","reference_answer":"2"}`,
	)

	boom := errors.New("boom")
	count := 0
	_, err := ForEach(path, 0, func(int, Problem) error { count++; return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped boom", err)
	}
	if count != 1 {
		t.Errorf("callback ran %d times after error, want 1", count)
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "records.jsonl")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"a", "b", "c"} {
		if err := w.Write(Problem{ID: id, Question: "q", ReferenceAnswer: "1"}); err != nil {
			t.Fatal(err)
		}
	}
	if w.Count() != 3 {
		t.Errorf("Count() = %d, want 3", w.Count())
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	recs, skipped, err := ReadAll[Problem](path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 0 || len(recs) != 3 {
		t.Fatalf("ReadAll = %d recs, %d skipped", len(recs), skipped)
	}
	if recs[1].ID != "b" {
		t.Errorf("order not preserved: %+v", recs)
	}
}

func TestReferenceAnswers(t *testing.T) {
	path := writeLines(t,
		`{"id":"gsm8k/test/0","question":"q","reference_answer":"72"}`,
		`{"id":"gsm8k/test/1","question":"q","reference_answer":"10"}`,
	)

	refs, skipped, err := ReferenceAnswers(path)
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if refs["gsm8k/test/0"] != "72" || refs["gsm8k/test/1"] != "10" {
		t.Errorf("refs = %v", refs)
	}
}
