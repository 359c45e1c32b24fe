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

package stats

// ScanStats summarizes the outcome of a single scan.
type ScanStats struct {
	// Score of the whole-document analysis.
	Score float32
	// Identified is true if the whole document cleared the confidence threshold.
	Identified bool
	// Contained is the number of contained matches found while optimizing.
	Contained int
	// Passes is the number of optimization passes attempted, including a final
	// one whose localized score did not exceed the threshold.
	Passes int
	// Err is the error the scan failed with, if any.
	Err error
}
