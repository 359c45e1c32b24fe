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

// Package testcollector provides an implementation of stats.Collector that
// stores recorded metrics for verification in tests.
package testcollector

import (
	"sync"
	"time"

	"github.com/google/licensescanner/stats"
)

// Collector implements the stats.Collector interface and keeps everything it
// is notified about.
type Collector struct {
	mu          sync.Mutex
	analyses    int
	analyzeErrs int
	passScores  []float32
	scans       []*stats.ScanStats
}

// New returns a new test Collector.
func New() *Collector {
	return &Collector{}
}

// AfterAnalyze counts analyses and failed analyses.
func (c *Collector) AfterAnalyze(_ time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.analyses++
	if err != nil {
		c.analyzeErrs++
	}
}

// AfterPass stores the score of each recorded pass.
func (c *Collector) AfterPass(_ int, score float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.passScores = append(c.passScores, score)
}

// AfterScan stores the scan summary.
func (c *Collector) AfterScan(_ time.Duration, scanstats *stats.ScanStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scans = append(c.scans, scanstats)
}

// Analyses returns the number of analyses and how many of them failed.
func (c *Collector) Analyses() (total, failed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.analyses, c.analyzeErrs
}

// PassScores returns the scores of all recorded passes in order.
func (c *Collector) PassScores() []float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]float32(nil), c.passScores...)
}

// Scans returns the summaries of all finished scans in order.
func (c *Collector) Scans() []*stats.ScanStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*stats.ScanStats(nil), c.scans...)
}
