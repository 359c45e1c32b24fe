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

// Package stats contains interfaces and utilities relating to the collection of
// statistics from license scans.
package stats

import (
	"time"

	"github.com/google/licensescanner/log"
)

// Collector is a component which is notified when certain events occur during
// a scan. It can be implemented with different metric backends to enable
// monitoring of the scanner.
type Collector interface {
	// AfterAnalyze is called after every whole-text comparison against the
	// corpus, including the re-analyses performed while optimizing.
	AfterAnalyze(runtime time.Duration, err error)
	// AfterPass is called after an optimization pass recorded a contained match.
	AfterPass(pass int, score float32)
	// AfterScan is called once per scan with the outcome.
	AfterScan(runtime time.Duration, scanstats *ScanStats)
}

// NoopCollector implements Collector by doing nothing.
type NoopCollector struct{}

// AfterAnalyze implements Collector by doing nothing.
func (c NoopCollector) AfterAnalyze(runtime time.Duration, err error) {}

// AfterPass implements Collector by doing nothing.
func (c NoopCollector) AfterPass(pass int, score float32) {}

// AfterScan implements Collector by doing nothing.
func (c NoopCollector) AfterScan(runtime time.Duration, scanstats *ScanStats) {}

// LogCollector implements Collector by writing debug log lines.
type LogCollector struct{}

// AfterAnalyze logs the analysis runtime.
func (LogCollector) AfterAnalyze(runtime time.Duration, err error) {
	if err != nil {
		log.Debugf("analysis failed after %v: %v", runtime, err)
		return
	}
	log.Debugf("analysis took %v", runtime)
}

// AfterPass logs the score of a recorded pass.
func (LogCollector) AfterPass(pass int, score float32) {
	log.Debugf("optimization pass %d matched with score %.4f", pass, score)
}

// AfterScan logs a summary of the scan.
func (LogCollector) AfterScan(runtime time.Duration, scanstats *ScanStats) {
	if scanstats.Err != nil {
		log.Debugf("scan failed after %v: %v", runtime, scanstats.Err)
		return
	}
	log.Debugf("scan took %v: score %.4f, identified %t, %d contained in %d passes",
		runtime, scanstats.Score, scanstats.Identified, scanstats.Contained, scanstats.Passes)
}
