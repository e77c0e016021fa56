// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// defaultFileName is the config file searched for when no path is given:
// first in the working directory, then under ~/.gvgap/.
const defaultFileName = "gvgap.yaml"

// Load reads and validates configuration.
//
// With an explicit path the file must exist. With an empty path the
// default locations are tried in order and a missing file falls back to
// Default(), so the CLI works out of the box.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = findDefault()
		if path == "" {
			return cfg, validate(cfg)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, validate(cfg)
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// findDefault returns the first default config file that exists.
func findDefault() string {
	if _, err := os.Stat(defaultFileName); err == nil {
		return defaultFileName
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".gvgap", defaultFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func validate(cfg Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid field %s: failed %q constraint", fe.Namespace(), fe.Tag())
		}
		return err
	}
	return nil
}
