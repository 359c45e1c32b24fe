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

package preproc_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/licensescanner/preproc"
)

func TestLines(t *testing.T) {
	tests := []struct {
		desc string
		text string
		want []string
	}{
		{
			desc: "empty",
			text: "",
			want: []string{""},
		},
		{
			desc: "mixed line endings",
			text: "a\r\nb\rc\nd",
			want: []string{"a", "b", "c", "d"},
		},
		{
			desc: "blank lines are kept",
			text: "a\n\n\nb\n",
			want: []string{"a", "", "", "b", ""},
		},
		{
			desc: "diacritics and typographic quotes",
			text: "“Licensor” means café\t  ",
			want: []string{`"Licensor" means cafe`},
		},
		{
			desc: "dashes",
			text: "non‑exclusive — worldwide",
			want: []string{"non-exclusive - worldwide"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			got := preproc.Lines(tc.text)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Lines(%q) returned diff (-want +got):\n%s", tc.text, diff)
			}
		})
	}
}

func TestAggressive(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{line: "", want: ""},
		{line: "Permission is hereby granted, free of charge,", want: "permission is hereby granted free of charge"},
		{line: "  * THE SOFTWARE IS PROVIDED \"AS IS\"", want: "the software is provided as is"},
		{line: "Copyright (c) 2018 Jane Doe", want: ""},
		{line: "// Copyright 2025 Google LLC", want: ""},
		{line: "(c) Example Corp", want: ""},
		{line: "© Example Corp", want: ""},
		{line: "copyright notice and this permission notice", want: "copyright notice and this permission notice"},
		{line: "the Licence & its terms", want: "the license and its terms"},
		{line: "1234 5678 1234", want: "1234 5678 1234"},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			if got := preproc.Aggressive(tc.line); got != tc.want {
				t.Errorf("Aggressive(%q) = %q, want %q", tc.line, got, tc.want)
			}
		})
	}
}

func TestAggressiveLinesKeepsCount(t *testing.T) {
	lines := []string{"Copyright 2020 A", "MIT License", "", "hello, world"}
	got := preproc.AggressiveLines(lines)
	want := []string{"", "mit license", "", "hello world"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AggressiveLines(%q) returned diff (-want +got):\n%s", lines, diff)
	}
}
