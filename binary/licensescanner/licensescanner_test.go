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

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/licensescanner/testing/spdxtest"
)

// setup creates an SPDX dir at {dir}/spdx and license files below {dir}/src.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	spdxDir := spdxtest.WriteDir(t)
	if err := os.Rename(spdxDir, filepath.Join(dir, "spdx")); err != nil {
		t.Fatalf("os.Rename(%s): %v", spdxDir, err)
	}
	spdxtest.WriteFile(t, dir, "src/LICENSE", spdxtest.Licenses["Dummy-1.0"])
	spdxtest.WriteFile(t, dir, "src/NOTICE", spdxtest.MultipleText)
	spdxtest.WriteFile(t, dir, "config.yaml", "optimize: true\nconfidence_threshold: 0.5\nshallow_limit: 1\nformat: yaml\n")
	spdxtest.WriteFile(t, dir, "config.ini", "optimize = true\nformat = text\n")
	spdxtest.WriteFile(t, dir, "config.conf", "optimize=true\n")
	return dir
}

func TestRun(t *testing.T) {
	testCases := []struct {
		desc       string
		args       []string
		want       int
		wantOutput string
	}{
		{
			desc: "identify",
			args: []string{"licensescanner", "identify", "--spdx", "{dir}/spdx", "--output", "{dir}/out.json", "{dir}/src/LICENSE"},
			want: 0,
		},
		{
			desc:       "identify with config file",
			args:       []string{"licensescanner", "identify", "--spdx", "{dir}/spdx", "--config", "{dir}/config.yaml", "--output", "{dir}/out.yaml", "{dir}/src/NOTICE"},
			want:       0,
			wantOutput: "{dir}/out.yaml",
		},
		{
			desc: "explicit flag overrides config file",
			args: []string{"licensescanner", "identify", "--spdx", "{dir}/spdx", "--config", "{dir}/config.yaml", "--format", "text",
				"--output", "{dir}/out.txt", "{dir}/src/LICENSE"},
			want:       0,
			wantOutput: "{dir}/out.txt",
		},
		{
			desc:       "identify with INI config file",
			args:       []string{"licensescanner", "identify", "--spdx", "{dir}/spdx", "--config", "{dir}/config.ini", "--output", "{dir}/out.txt", "{dir}/src/LICENSE"},
			want:       0,
			wantOutput: "{dir}/out.txt",
		},
		{
			desc: "unsupported config file",
			args: []string{"licensescanner", "identify", "--spdx", "{dir}/spdx", "--config", "{dir}/config.conf", "{dir}/src/LICENSE"},
			want: 1,
		},
		{
			desc: "missing config file",
			args: []string{"licensescanner", "identify", "--spdx", "{dir}/spdx", "--config", "{dir}/missing.yaml", "{dir}/src/LICENSE"},
			want: 1,
		},
		{
			desc: "identify without files",
			args: []string{"licensescanner", "identify", "--spdx", "{dir}/spdx"},
			want: 1,
		},
		{
			desc: "identify with unknown flag",
			args: []string{"licensescanner", "identify", "--root", "/", "{dir}/src/LICENSE"},
			want: 1,
		},
		{
			desc:       "crawl",
			args:       []string{"licensescanner", "crawl", "--spdx", "{dir}/spdx", "--workers", "3", "--format", "text", "--output", "{dir}/crawl.txt", "{dir}/src"},
			want:       0,
			wantOutput: "{dir}/crawl.txt",
		},
		{
			desc: "glob is only a crawl flag",
			args: []string{"licensescanner", "identify", "--spdx", "{dir}/spdx", "--glob", "LICENSE", "{dir}/src/LICENSE"},
			want: 1,
		},
		{
			desc:       "cache load-spdx",
			args:       []string{"licensescanner", "cache", "load-spdx", "--cache", "{dir}/licenses.db", "--store-texts", "{dir}/spdx"},
			want:       0,
			wantOutput: "{dir}/licenses.db",
		},
		{
			desc: "cache load-spdx without cache flag",
			args: []string{"licensescanner", "cache", "load-spdx", "{dir}/spdx"},
			want: 1,
		},
		{
			desc: "unknown cache command",
			args: []string{"licensescanner", "cache", "dump"},
			want: 1,
		},
		{
			desc: "unknown command",
			args: []string{"licensescanner", "scan", "{dir}/src"},
			want: 1,
		},
		{
			desc: "no command",
			args: []string{"licensescanner"},
			want: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			dir := setup(t)
			args := make([]string, len(tc.args))
			for i, arg := range tc.args {
				args[i] = filepath.FromSlash(strings.ReplaceAll(arg, "{dir}", dir))
			}
			if got := run(args); got != tc.want {
				t.Errorf("run(%v) returned unexpected exit code, got %d want %d", args, got, tc.want)
			}
			if tc.wantOutput == "" {
				return
			}
			output := filepath.FromSlash(strings.ReplaceAll(tc.wantOutput, "{dir}", dir))
			if _, err := os.Stat(output); err != nil {
				t.Errorf("run(%v) did not write %s: %v", args, output, err)
			}
		})
	}
}

func TestRunConfigFileSettings(t *testing.T) {
	dir := setup(t)
	output := filepath.Join(dir, "out.txt")
	args := []string{"licensescanner", "identify", "--spdx", filepath.Join(dir, "spdx"), "--config", filepath.Join(dir, "config.yaml"),
		"--format", "text", "--output", output, filepath.Join(dir, "src", "NOTICE")}
	if got := run(args); got != 0 {
		t.Fatalf("run(%v) returned exit code %d, want 0", args, got)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("os.ReadFile(%s): %v", output, err)
	}
	// optimize and the thresholds come from the config file.
	for _, want := range []string{"contains Dummy-2.0 (original) at lines 3-7", "contains Dummy-1.0 (original) at lines 10-12"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("run(%v) output %q does not contain %q", args, data, want)
		}
	}
}

func TestConfigUsageNamesEveryFormat(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{".yaml", ".yml", ".toml", ".json", ".jsonc", ".ini"} {
		if !strings.Contains(configUsage, ext) {
			t.Errorf("--config usage %q does not mention %s", configUsage, ext)
		}
		// Every advertised extension is accepted.
		path := spdxtest.WriteFile(t, dir, "config"+ext, "")
		args := []string{"licensescanner", "identify", "--spdx", filepath.Join(dir, "missing"), "--config", path, "LICENSE"}
		if _, err := parseScanFlags("identify", args[2:]); err != nil && strings.Contains(err.Error(), "unsupported extension") {
			t.Errorf("parseScanFlags() rejected --config %s: %v", path, err)
		}
	}
}
