// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package record

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrMissingInput indicates a required input stream does not exist.
// Stage commands treat this as fatal and exit non-zero.
var ErrMissingInput = errors.New("input file not found")

// maxLineBytes bounds a single JSONL line. CoT traces can run long but a
// line past this size is corrupt input, not data.
const maxLineBytes = 4 << 20

// ForEach streams records of type T from a JSONL file in input order.
//
// Malformed lines are skipped and counted, never silently dropped: the
// skipped total is returned so callers can report it. A limit <= 0 means
// no limit. The callback may return an error to abort the stream; the
// error is propagated unchanged.
func ForEach[T any](path string, limit int, fn func(index int, rec T) error) (skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	index := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var rec T
		if uerr := json.Unmarshal([]byte(line), &rec); uerr != nil {
			skipped++
			continue
		}
		if ferr := fn(index, rec); ferr != nil {
			return skipped, ferr
		}
		index++
		if limit > 0 && index >= limit {
			break
		}
	}
	if serr := sc.Err(); serr != nil {
		return skipped, fmt.Errorf("read %s: %w", path, serr)
	}
	return skipped, nil
}

// ReadAll loads every record of type T from a JSONL file.
func ReadAll[T any](path string, limit int) (recs []T, skipped int, err error) {
	skipped, err = ForEach(path, limit, func(_ int, rec T) error {
		recs = append(recs, rec)
		return nil
	})
	return recs, skipped, err
}

// Writer appends records to a JSONL output stream.
//
// Each record is marshalled and written as one line in a single Write
// call, then flushed, so an aborted run leaves only fully formed records
// behind. The parent directory is created on open.
type Writer struct {
	f  *os.File
	bw *bufio.Writer
	n  int
}

// NewWriter creates (or truncates) the output stream at path.
func NewWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &Writer{f: f, bw: bufio.NewWriter(f)}, nil
}

// Write appends one record as a JSONL line and flushes it.
func (w *Writer) Write(rec any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.bw.Write(data); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := w.bw.Flush(); err != nil {
		return fmt.Errorf("flush record: %w", err)
	}
	w.n++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int { return w.n }

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// ReferenceAnswers loads a reference dataset into an id -> reference
// answer map for the metrics stage.
func ReferenceAnswers(path string) (map[string]string, int, error) {
	refs := make(map[string]string)
	skipped, err := ForEach(path, 0, func(_ int, p Problem) error {
		refs[p.ID] = p.ReferenceAnswer
		return nil
	})
	if err != nil {
		return nil, skipped, err
	}
	return refs, skipped, nil
}
