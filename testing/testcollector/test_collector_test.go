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

package testcollector_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/licensescanner/stats"
	"github.com/google/licensescanner/testing/testcollector"
)

func TestCollector(t *testing.T) {
	c := testcollector.New()
	c.AfterAnalyze(time.Millisecond, nil)
	c.AfterAnalyze(time.Millisecond, errors.New("boom"))
	c.AfterPass(0, 0.9)
	c.AfterPass(1, 0.7)
	scan := &stats.ScanStats{Score: 0.4, Contained: 2, Passes: 3}
	c.AfterScan(time.Second, scan)

	total, failed := c.Analyses()
	if total != 2 || failed != 1 {
		t.Errorf("Analyses() = %d, %d, want 2, 1", total, failed)
	}
	if diff := cmp.Diff([]float32{0.9, 0.7}, c.PassScores()); diff != "" {
		t.Errorf("PassScores() returned diff (-want +got):\n%s", diff)
	}
	want := []*stats.ScanStats{{Score: 0.4, Contained: 2, Passes: 3}}
	if diff := cmp.Diff(want, c.Scans(), cmpopts.EquateErrors()); diff != "" {
		t.Errorf("Scans() returned diff (-want +got):\n%s", diff)
	}
}
