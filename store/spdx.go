// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/google/licensescanner/license"
	"github.com/google/licensescanner/log"
	"github.com/tidwall/gjson"
	"go.uber.org/multierr"
)

// SPDXConfig controls how SPDX license list files are loaded.
type SPDXConfig struct {
	// IncludeTexts keeps the line contents of every license. Without them the
	// store needs less memory but cannot show the matched texts.
	IncludeTexts bool
	// Exclude skips license IDs matching the glob, if set.
	Exclude glob.Glob
}

// LoadSPDX adds all licenses found in a directory of SPDX license-list-data
// JSON files (the json/details directory of the license-list-data repo).
// Deprecated license IDs are skipped. A license's standard header is added
// as a header variant and its full name as an alias. Files that fail to load
// don't stop the remaining ones from loading; their errors are returned
// together.
func (s *Store) LoadSPDX(dir string, cfg *SPDXConfig) error {
	if cfg == nil {
		cfg = &SPDXConfig{}
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading SPDX directory: %w", err)
	}

	var errs error
	loaded := 0
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, f.Name())
		added, err := s.loadSPDXFile(path, cfg)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if added {
			loaded++
		}
	}
	log.Infof("Loaded %d licenses from %s", loaded, dir)
	return errs
}

func (s *Store) loadSPDXFile(path string, cfg *SPDXConfig) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if !gjson.ValidBytes(data) {
		return false, errors.New("invalid JSON")
	}
	doc := gjson.ParseBytes(data)

	id := doc.Get("licenseId").String()
	if id == "" {
		return false, errors.New("no licenseId")
	}
	if doc.Get("isDeprecatedLicenseId").Bool() {
		log.Debugf("Skipping deprecated license %s", id)
		return false, nil
	}
	if cfg.Exclude != nil && cfg.Exclude.Match(id) {
		log.Debugf("Skipping excluded license %s", id)
		return false, nil
	}
	text := doc.Get("licenseText").String()
	if strings.TrimSpace(text) == "" {
		return false, fmt.Errorf("license %s has no licenseText", id)
	}

	s.AddLicense(id, prepare(text, cfg.IncludeTexts))
	if header := doc.Get("standardLicenseHeader").String(); strings.TrimSpace(header) != "" {
		if err := s.AddVariant(id, license.Header, prepare(header, cfg.IncludeTexts)); err != nil {
			return false, err
		}
	}
	if name := doc.Get("name").String(); name != "" && name != id {
		if err := s.SetAliases(id, name); err != nil {
			return false, err
		}
	}
	return true, nil
}

func prepare(text string, includeText bool) *license.TextData {
	td := license.New(text)
	if !includeText {
		return td.WithoutText()
	}
	return td
}
