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

// Package license holds the normalized representation of license and input
// texts and the operations used to find one text within another.
package license

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/licensescanner/ngram"
	"github.com/google/licensescanner/preproc"
)

// GramSize is the number of words per n-gram used for comparisons.
const GramSize = 2

// ErrNoText is returned by operations that need the line contents of a text
// that was stripped with WithoutText.
var ErrNoText = errors.New("text data has no line contents")

// TextData is a normalized text together with a view: a half-open range of
// lines that comparisons are restricted to. TextData values are never
// modified after construction; all operations return new values.
type TextData struct {
	// Lines after preproc.Lines. Nil once stripped.
	lines []string
	// Lines after preproc.Aggressive, always present.
	processed []string
	start     int
	end       int
	grams     *ngram.Set
}

// New normalizes text and returns it with a view covering all of its lines.
func New(text string) *TextData {
	lines := preproc.Lines(text)
	return newTextData(lines, preproc.AggressiveLines(lines), 0, len(lines))
}

// FromProcessed restores a TextData from its normalized lines. lines may be
// nil, which produces a stripped text; otherwise it must be as long as
// processed.
func FromProcessed(lines, processed []string) (*TextData, error) {
	if lines != nil && len(lines) != len(processed) {
		return nil, fmt.Errorf("got %d lines but %d processed lines", len(lines), len(processed))
	}
	return newTextData(lines, processed, 0, len(processed)), nil
}

func newTextData(lines, processed []string, start, end int) *TextData {
	return &TextData{
		lines:     lines,
		processed: processed,
		start:     start,
		end:       end,
		grams:     ngram.FromString(strings.Join(processed[start:end], " "), GramSize),
	}
}

// Len returns the number of lines of the whole text, regardless of the view.
func (t *TextData) Len() int { return len(t.processed) }

// LinesView returns the current view as a half-open range [start, end).
func (t *TextData) LinesView() (start, end int) { return t.start, t.end }

// LineRange returns the current view as an inclusive range of 0-based line
// numbers. For an empty view end is start-1.
func (t *TextData) LineRange() (start, end int) { return t.start, t.end - 1 }

// HasText reports whether the line contents are still available.
func (t *TextData) HasText() bool { return t.lines != nil }

// Lines returns the normalized lines inside the view, or nil if the text was
// stripped.
func (t *TextData) Lines() []string {
	if t.lines == nil {
		return nil
	}
	return slices.Clone(t.lines[t.start:t.end])
}

// ProcessedLines returns all aggressively normalized lines, ignoring the view.
func (t *TextData) ProcessedLines() []string { return slices.Clone(t.processed) }

// AllLines returns all normalized lines ignoring the view, or nil if the text
// was stripped.
func (t *TextData) AllLines() []string {
	if t.lines == nil {
		return nil
	}
	return slices.Clone(t.lines)
}

// Text returns the aggressively normalized words inside the view.
func (t *TextData) Text() string {
	return strings.Join(strings.Fields(strings.Join(t.processed[t.start:t.end], " ")), " ")
}

// Grams returns the n-gram set of the view.
func (t *TextData) Grams() *ngram.Set { return t.grams }

// WithView returns a copy restricted to lines [start, end). Out of range
// bounds are clamped to the text.
func (t *TextData) WithView(start, end int) *TextData {
	end = min(max(end, 0), len(t.processed))
	start = min(max(start, 0), end)
	return newTextData(t.lines, t.processed, start, end)
}

// WithoutText returns a copy that drops the line contents and keeps only what
// comparisons need. Stripped texts cannot be whited out.
func (t *TextData) WithoutText() *TextData {
	return &TextData{
		processed: t.processed,
		start:     t.start,
		end:       t.end,
		grams:     t.grams,
	}
}

// MatchScore returns the similarity of the two views, between 0 and 1.
func (t *TextData) MatchScore(other *TextData) float32 {
	return t.grams.Dice(other.grams)
}

// OptimizeBounds finds the range of lines within the current view that best
// matches other. It narrows the end of the view first and then its start,
// and returns the narrowed text together with its score.
func (t *TextData) OptimizeBounds(other *TextData) (*TextData, float32) {
	start, end := t.start, t.end

	bestEnd, _ := searchOptimize(start, end, func(e int) float32 {
		return t.WithView(start, e).MatchScore(other)
	})
	bestStart, score := searchOptimize(start, bestEnd, func(s int) float32 {
		return t.WithView(s, bestEnd).MatchScore(other)
	})
	return t.WithView(bestStart, bestEnd), score
}

// searchOptimize runs a ternary search for the index in [left, right] with
// the highest score. Once the window is small enough every remaining index is
// scored, and on ties the highest index wins.
func searchOptimize(left, right int, score func(int) float32) (int, float32) {
	memo := make(map[int]float32)
	check := func(i int) float32 {
		if s, ok := memo[i]; ok {
			return s
		}
		s := score(i)
		memo[i] = s
		return s
	}

	for right-left > 3 {
		low := (left*2 + right) / 3
		high := (left + right*2) / 3
		if check(low) > check(high) {
			right = high - 1
		} else {
			left = low + 1
		}
	}

	best, bestScore := left, float32(0)
	for i := left; i <= right; i++ {
		if s := check(i); s >= bestScore {
			best, bestScore = i, s
		}
	}
	return best, bestScore
}

// WhiteOut returns a copy of the whole text in which the lines of the current
// view are blank, with the view reset to the full text. The number of lines
// does not change, so line numbers keep referring to the original text.
func (t *TextData) WhiteOut() (*TextData, error) {
	if t.lines == nil {
		return nil, ErrNoText
	}
	lines := slices.Clone(t.lines)
	processed := slices.Clone(t.processed)
	for i := t.start; i < t.end; i++ {
		lines[i] = ""
		processed[i] = ""
	}
	return newTextData(lines, processed, 0, len(lines)), nil
}
