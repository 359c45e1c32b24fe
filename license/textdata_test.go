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

package license_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/licensescanner/license"
)

const (
	gibberishLicense = "1234 5678 1234\n0000\n1010101010\n\n8888 9999"
	gibberishText    = "lorem\nipsum abc def ghi jkl\n1234 5678 1234\n0000\n1010101010\n\n8888 9999\nwhatsit hello\narst neio qwfp colemak is the best keyboard layout\naaaaa\nbbbbb\nccccc"
)

func TestNew(t *testing.T) {
	td := license.New("Hello, World!\n\nCopyright 2020 Someone\nthe END")
	if got, want := td.Len(), 4; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	start, end := td.LinesView()
	if start != 0 || end != 4 {
		t.Errorf("LinesView() = %d, %d, want 0, 4", start, end)
	}
	if got, want := td.Text(), "hello world the end"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	wantLines := []string{"Hello, World!", "", "Copyright 2020 Someone", "the END"}
	if diff := cmp.Diff(wantLines, td.Lines()); diff != "" {
		t.Errorf("Lines() returned diff (-want +got):\n%s", diff)
	}
}

func TestWithView(t *testing.T) {
	td := license.New("a b\nc d\ne f\ng h")
	tests := []struct {
		desc      string
		start     int
		end       int
		wantStart int
		wantEnd   int
		wantText  string
	}{
		{desc: "inner", start: 1, end: 3, wantStart: 1, wantEnd: 3, wantText: "c d e f"},
		{desc: "empty", start: 2, end: 2, wantStart: 2, wantEnd: 2, wantText: ""},
		{desc: "end past text", start: 3, end: 10, wantStart: 3, wantEnd: 4, wantText: "g h"},
		{desc: "start after end", start: 3, end: 1, wantStart: 1, wantEnd: 1, wantText: ""},
		{desc: "negative start", start: -2, end: 1, wantStart: 0, wantEnd: 1, wantText: "a b"},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			v := td.WithView(tc.start, tc.end)
			gotStart, gotEnd := v.LinesView()
			if gotStart != tc.wantStart || gotEnd != tc.wantEnd {
				t.Errorf("WithView(%d, %d).LinesView() = %d, %d, want %d, %d",
					tc.start, tc.end, gotStart, gotEnd, tc.wantStart, tc.wantEnd)
			}
			if got := v.Text(); got != tc.wantText {
				t.Errorf("WithView(%d, %d).Text() = %q, want %q", tc.start, tc.end, got, tc.wantText)
			}
		})
	}
	if start, end := td.LinesView(); start != 0 || end != 4 {
		t.Errorf("WithView() modified the receiver view to %d, %d", start, end)
	}
}

func TestMatchScore(t *testing.T) {
	lic := license.New("aaaaa\nbbbbb\nccccc")
	tests := []struct {
		text string
		want float32
	}{
		{text: "aaaaa bbbbb ccccc", want: 1},
		{text: "AAAAA,\n  bbbbb.\nccccc!", want: 1},
		{text: "lorem ipsum\naaaaa bbbbb\nccccc\nhello", want: 4.0 / 7.0},
		{text: "nothing in common", want: 0},
	}
	for _, tc := range tests {
		if got := license.New(tc.text).MatchScore(lic); got != tc.want {
			t.Errorf("New(%q).MatchScore() = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestOptimizeBounds(t *testing.T) {
	lic := license.New(gibberishLicense)
	text := license.New(gibberishText)

	if got := text.MatchScore(lic); got >= 0.5 {
		t.Fatalf("whole text MatchScore() = %v, want < 0.5", got)
	}

	optimized, score := text.OptimizeBounds(lic)
	if score != 1 {
		t.Errorf("OptimizeBounds() score = %v, want 1", score)
	}
	start, end := optimized.LinesView()
	if start != 2 || end != 7 {
		t.Errorf("OptimizeBounds() view = [%d, %d), want [2, 7)", start, end)
	}
	start, end = optimized.LineRange()
	if start != 2 || end != 6 {
		t.Errorf("OptimizeBounds() LineRange() = %d, %d, want 2, 6", start, end)
	}
	if got := optimized.MatchScore(lic); got != score {
		t.Errorf("OptimizeBounds() returned score %v but its view scores %v", score, got)
	}
}

func TestOptimizeBoundsNoMatch(t *testing.T) {
	lic := license.New(gibberishLicense)
	text := license.New("completely\nunrelated\nwords here")
	if _, score := text.OptimizeBounds(lic); score != 0 {
		t.Errorf("OptimizeBounds() score = %v, want 0", score)
	}
}

func TestWhiteOut(t *testing.T) {
	lic := license.New(gibberishLicense)
	text := license.New(gibberishText)
	optimized, _ := text.OptimizeBounds(lic)

	masked, err := optimized.WhiteOut()
	if err != nil {
		t.Fatalf("WhiteOut(): %v", err)
	}
	if masked.Len() != text.Len() {
		t.Errorf("WhiteOut() changed line count from %d to %d", text.Len(), masked.Len())
	}
	start, end := masked.LinesView()
	if start != 0 || end != text.Len() {
		t.Errorf("WhiteOut() view = [%d, %d), want [0, %d)", start, end, text.Len())
	}
	wantLines := []string{
		"lorem", "ipsum abc def ghi jkl", "", "", "", "", "",
		"whatsit hello", "arst neio qwfp colemak is the best keyboard layout",
		"aaaaa", "bbbbb", "ccccc",
	}
	if diff := cmp.Diff(wantLines, masked.Lines()); diff != "" {
		t.Errorf("WhiteOut().Lines() returned diff (-want +got):\n%s", diff)
	}
	if got := masked.MatchScore(lic); got != 0 {
		t.Errorf("WhiteOut().MatchScore() = %v, want 0", got)
	}
	// The original stays untouched.
	if got := text.Lines()[2]; got != "1234 5678 1234" {
		t.Errorf("WhiteOut() modified the original text, line 2 is now %q", got)
	}
}

func TestWhiteOutStripped(t *testing.T) {
	stripped := license.New("some text").WithoutText()
	if stripped.HasText() {
		t.Errorf("WithoutText().HasText() = true, want false")
	}
	if _, err := stripped.WhiteOut(); !errors.Is(err, license.ErrNoText) {
		t.Errorf("WhiteOut() on stripped text: got err %v, want %v", err, license.ErrNoText)
	}
}

func TestFromProcessed(t *testing.T) {
	orig := license.New("Alpha Beta\nGamma, delta")
	restored, err := license.FromProcessed(orig.AllLines(), orig.ProcessedLines())
	if err != nil {
		t.Fatalf("FromProcessed(): %v", err)
	}
	if got := restored.MatchScore(orig); got != 1 {
		t.Errorf("FromProcessed().MatchScore(orig) = %v, want 1", got)
	}
	if _, err := license.FromProcessed([]string{"a"}, []string{"a", "b"}); err == nil {
		t.Errorf("FromProcessed() with mismatched lengths returned no error")
	}
}
