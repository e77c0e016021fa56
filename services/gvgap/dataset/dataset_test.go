// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	raw := []RawProblem{
		{
			Question: "How many clips?",
			Answer:   "Natalia sold 48/2 = 24 clips in May.\nAltogether 72.\n#### 72",
		},
		{
			Question: "No marker here",
			Answer:   "just prose with no final marker",
		},
	}

	problems := Convert(raw, "GSM8K", "math", "test")
	require.Len(t, problems, 2)

	assert.Equal(t, "gsm8k/test/0", problems[0].ID)
	assert.Equal(t, "GSM8K", problems[0].Dataset)
	assert.Equal(t, "math", problems[0].Domain)
	assert.Equal(t, "72", problems[0].ReferenceAnswer)
	assert.Equal(t, "Natalia sold 48/2 = 24 clips in May.\nAltogether 72.", problems[0].GoldCoT)

	assert.Equal(t, "gsm8k/test/1", problems[1].ID)
	assert.Equal(t, "Unknown", problems[1].ReferenceAnswer, "missing marker falls back to Unknown")
}

func TestConvert_LastMarkerWins(t *testing.T) {
	raw := []RawProblem{{
		Question: "q",
		Answer:   "#### is mentioned early\nmore work\n#### 5",
	}}
	problems := Convert(raw, "gsm8k", "math", "train")
	assert.Equal(t, "5", problems[0].ReferenceAnswer)
}

func TestLoadRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.json")
	content := `[{"question":"q1","answer":"a #### 1"},{"question":"q2","answer":"b #### 2"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	raw, err := LoadRaw(path)
	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, "q2", raw[1].Question)
}

func TestLoadRaw_Errors(t *testing.T) {
	_, err := LoadRaw(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o600))
	_, err = LoadRaw(bad)
	assert.Error(t, err)
}

func TestSample(t *testing.T) {
	problems := Convert(Sample, "gsm8k", "math", "sample")
	require.Len(t, problems, 3)
	for _, p := range problems {
		assert.NotEqual(t, "Unknown", p.ReferenceAnswer, "bundled samples must parse: %s", p.ID)
	}
	assert.Equal(t, "72", problems[0].ReferenceAnswer)
}
