// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// gvgap measures the generation-verification gap of a language model:
// how much better (or worse) the model is at judging answers than at
// producing them.
//
// The pipeline runs as a sequence of stages connected by JSONL record
// streams, so any stage can be re-run or inspected in isolation:
//
//	dataset prepare -> generate -> verify generations -> tag -> metrics gap
//	dataset prepare -> inject   -> verify injected    -> metrics missrate
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already printed the error.
		os.Exit(1)
	}
}
