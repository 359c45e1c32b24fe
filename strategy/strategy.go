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

// Package strategy runs license scans on top of a corpus analysis engine.
//
// A ScanStrategy first compares the whole text against the corpus. When
// optimization is enabled it then repeatedly narrows the text down to the
// lines that best match a license, records that match, blanks those lines
// and analyzes what is left, so that several licenses within one text are
// found one after another.
package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/licensescanner/license"
	"github.com/google/licensescanner/log"
	"github.com/google/licensescanner/stats"
	"github.com/google/licensescanner/store"
)

const (
	// DefaultConfidenceThreshold is the score a match has to exceed to count.
	DefaultConfidenceThreshold float32 = 0.8
	// DefaultShallowLimit is the whole-text score above which no further
	// licenses are searched for.
	DefaultShallowLimit float32 = 0.99
	// DefaultMaxPasses bounds the number of optimization passes.
	DefaultMaxPasses uint16 = 10
)

// Engine compares a text against a corpus of licenses. *store.Store
// implements it.
type Engine interface {
	// Analyze returns the corpus text best matching text. A text that matches
	// nothing yields a low score, not an error.
	Analyze(ctx context.Context, text *license.TextData) (*store.Match, error)
}

var _ Engine = (*store.Store)(nil)

// ScanStrategy configures and runs scans. It is an immutable value: the With
// methods return modified copies, so a strategy can be shared and reused.
// Building a strategy never calls the engine.
type ScanStrategy struct {
	engine              Engine
	confidenceThreshold float32
	shallowLimit        float32
	optimize            bool
	maxPasses           uint16
	stats               stats.Collector
}

// New returns a strategy with default settings that analyzes with e.
func New(e Engine) ScanStrategy {
	return ScanStrategy{
		engine:              e,
		confidenceThreshold: DefaultConfidenceThreshold,
		shallowLimit:        DefaultShallowLimit,
		optimize:            false,
		maxPasses:           DefaultMaxPasses,
		stats:               stats.NoopCollector{},
	}
}

// WithConfidenceThreshold sets the score a match needs to exceed to be
// reported. The value is not validated.
func (s ScanStrategy) WithConfidenceThreshold(threshold float32) ScanStrategy {
	s.confidenceThreshold = threshold
	return s
}

// WithShallowLimit sets the whole-text score above which the scan stops
// without optimizing. It only takes effect for scores that also exceed the
// confidence threshold. The value is not validated.
func (s ScanStrategy) WithShallowLimit(limit float32) ScanStrategy {
	s.shallowLimit = limit
	return s
}

// WithOptimize enables the search for licenses within parts of the text.
func (s ScanStrategy) WithOptimize(optimize bool) ScanStrategy {
	s.optimize = optimize
	return s
}

// WithMaxPasses sets the maximum number of optimization passes, and thereby
// the maximum number of contained results.
func (s ScanStrategy) WithMaxPasses(passes uint16) ScanStrategy {
	s.maxPasses = passes
	return s
}

// WithStats sets a collector that is notified about analyses and scans.
func (s ScanStrategy) WithStats(c stats.Collector) ScanStrategy {
	if c == nil {
		c = stats.NoopCollector{}
	}
	s.stats = c
	return s
}

// ConfidenceThreshold returns the configured confidence threshold.
func (s ScanStrategy) ConfidenceThreshold() float32 { return s.confidenceThreshold }

// ShallowLimit returns the configured shallow limit.
func (s ScanStrategy) ShallowLimit() float32 { return s.shallowLimit }

// Optimize reports whether optimization is enabled.
func (s ScanStrategy) Optimize() bool { return s.optimize }

// MaxPasses returns the configured maximum number of optimization passes.
func (s ScanStrategy) MaxPasses() uint16 { return s.maxPasses }

// Scan identifies the licenses in text. text is not modified. With
// optimization enabled text must carry its line contents (see
// license.TextData.WithoutText); Scan panics when a stripped text has to be
// masked.
//
// Engine errors abort the scan and are returned as is (wrapped); no partial
// result is returned in that case.
func (s ScanStrategy) Scan(ctx context.Context, text *license.TextData) (sr *ScanResult, err error) {
	start := time.Now()
	passes := 0
	defer func() {
		ss := &stats.ScanStats{Passes: passes, Err: err}
		if sr != nil {
			ss.Score = sr.Score
			ss.Identified = sr.License != nil
			ss.Contained = len(sr.Containing)
		}
		s.stats.AfterScan(time.Since(start), ss)
	}()

	analysis, err := s.analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	sr = &ScanResult{Score: analysis.Score, Containing: []ContainedResult{}}

	if analysis.Score > s.confidenceThreshold {
		sr.License = &IdentifiedLicense{Name: analysis.Name, Kind: analysis.Kind}
		if analysis.Score > s.shallowLimit {
			return sr, nil
		}
	}
	if !s.optimize {
		return sr, nil
	}

	// Only masking allocates a new text; until then the caller's text is used.
	current := text
	for passes < int(s.maxPasses) {
		passes++
		optimized, score := current.OptimizeBounds(analysis.Data)
		// A score equal to the threshold stops too, so that every contained
		// score strictly exceeds it.
		if score <= s.confidenceThreshold {
			break
		}

		lineStart, lineEnd := optimized.LineRange()
		// The localization used the previous analysis, so that is the license
		// being reported.
		sr.Containing = append(sr.Containing, ContainedResult{
			Score:     score,
			License:   IdentifiedLicense{Name: analysis.Name, Kind: analysis.Kind},
			LineRange: LineRange{Start: lineStart, End: lineEnd},
		})
		s.stats.AfterPass(passes-1, score)
		log.Debugf("Found %s (%v) at lines %d-%d with score %.4f", analysis.Name, analysis.Kind, lineStart, lineEnd, score)

		masked, err := optimized.WhiteOut()
		if err != nil {
			// Only a stripped input text gets here.
			panic(fmt.Sprintf("white-out of a localized range failed: %v", err))
		}
		current = masked

		analysis, err = s.analyze(ctx, current)
		if err != nil {
			return nil, err
		}
	}

	return sr, nil
}

func (s ScanStrategy) analyze(ctx context.Context, text *license.TextData) (*store.Match, error) {
	start := time.Now()
	m, err := s.engine.Analyze(ctx, text)
	s.stats.AfterAnalyze(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("analyzing text: %w", err)
	}
	return m, nil
}
