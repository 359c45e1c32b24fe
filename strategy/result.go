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

package strategy

import "github.com/google/licensescanner/license"

// IdentifiedLicense names a license of the corpus.
type IdentifiedLicense struct {
	Name string       `json:"name" yaml:"name"`
	Kind license.Kind `json:"kind" yaml:"kind"`
}

// LineRange is an inclusive range of 0-based line numbers.
type LineRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// ContainedResult is a license found within a part of the scanned text.
type ContainedResult struct {
	Score     float32           `json:"score" yaml:"score"`
	License   IdentifiedLicense `json:"license" yaml:"license"`
	LineRange LineRange         `json:"line_range" yaml:"line_range"`
}

// ScanResult is the outcome of a scan.
//
// Score and License always describe the analysis of the whole text. License
// is nil unless that score exceeds the confidence threshold. Containing lists
// the licenses found in parts of the text, in the order they were found.
type ScanResult struct {
	Score      float32            `json:"score" yaml:"score"`
	License    *IdentifiedLicense `json:"license" yaml:"license"`
	Containing []ContainedResult  `json:"containing" yaml:"containing"`
}
