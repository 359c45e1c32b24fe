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

// Package spdxtest writes small SPDX license-list-data directories for tests.
package spdxtest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Licenses are the texts of the fixture licenses by license ID.
var Licenses = map[string]string{
	"Dummy-1.0": "aaaaa\nbbbbb\nccccc",
	"Dummy-2.0": "1234 5678 1234\n0000\n1010101010\n\n8888 9999",
}

// MultipleText contains both fixture licenses surrounded by unrelated lines.
// Dummy-2.0 is on lines 2-6 and Dummy-1.0 on lines 9-11 (0-based).
const MultipleText = "lorem\nipsum abc def ghi jkl\n1234 5678 1234\n0000\n1010101010\n\n8888 9999\n" +
	"whatsit hello\narst neio qwfp colemak is the best keyboard layout\naaaaa\nbbbbb\nccccc"

type details struct {
	LicenseID    string `json:"licenseId"`
	Name         string `json:"name"`
	IsDeprecated bool   `json:"isDeprecatedLicenseId"`
	LicenseText  string `json:"licenseText"`
}

// WriteDir writes one JSON details file per fixture license into a new
// temporary directory and returns its path.
func WriteDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for id, text := range Licenses {
		data, err := json.Marshal(details{LicenseID: id, Name: id + " License", LicenseText: text})
		if err != nil {
			t.Fatalf("json.Marshal(%s): %v", id, err)
		}
		path := filepath.Join(dir, id+".json")
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("os.WriteFile(%s): %v", path, err)
		}
	}
	return dir
}

// WriteFile writes content into a file below dir, creating parent
// directories, and returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("os.MkdirAll(%s): %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("os.WriteFile(%s): %v", path, err)
	}
	return path
}
