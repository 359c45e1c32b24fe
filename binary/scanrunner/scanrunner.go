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

// Package scanrunner provides the main functions for running the license scanner binary.
package scanrunner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"bitbucket.org/creachadair/stringset"
	"github.com/gobwas/glob"
	"github.com/google/licensescanner/binary/cli"
	"github.com/google/licensescanner/license"
	"github.com/google/licensescanner/log"
	"github.com/google/licensescanner/store"
	"github.com/google/licensescanner/strategy"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// ErrFileTooLarge is returned for files above the --max-file-size limit.
var ErrFileTooLarge = errors.New("file exceeds the maximum size")

// RunIdentify scans the files given on the command line
// and returns the exit code passed to os.Exit() in the main binary.
func RunIdentify(flags *cli.Flags) int {
	if flags.Verbose {
		log.SetLogger(&log.DefaultLogger{Verbose: true})
	}

	s, err := flags.LoadStore()
	if err != nil {
		log.Errorf("Failed to load licenses: %v", err)
		return 1
	}
	st := flags.GetStrategy(s)
	log.Infof("Identifying %d files against %d licenses", len(flags.Paths), s.Len())

	ctx := context.Background()
	results := make([]*cli.FileResult, 0, len(flags.Paths))
	failed := 0
	for _, path := range flags.Paths {
		r := scanFile(ctx, st, path, flags.MaxFileSize)
		if r.Error != "" {
			log.Errorf("Failed to scan %s: %s", path, r.Error)
			failed++
		}
		results = append(results, r)
	}

	if err := flags.WriteScanResults(results); err != nil {
		log.Errorf("Error writing scan results: %v", err)
		return 1
	}
	if failed > 0 {
		log.Errorf("%d of %d files could not be scanned", failed, len(results))
		return 1
	}
	return 0
}

// RunCrawl scans every file below the crawled directory whose name matches
// one of the globs and returns the exit code passed to os.Exit() in the main
// binary.
func RunCrawl(flags *cli.Flags) int {
	if flags.Verbose {
		log.SetLogger(&log.DefaultLogger{Verbose: true})
	}

	s, err := flags.LoadStore()
	if err != nil {
		log.Errorf("Failed to load licenses: %v", err)
		return 1
	}
	st := flags.GetStrategy(s)

	root := flags.Paths[0]
	if _, err := os.Stat(root); err != nil {
		log.Errorf("Cannot crawl %s: %v", root, err)
		return 1
	}
	paths, walkErr := findFiles(root, flags.Globs)
	for _, err := range multierr.Errors(walkErr) {
		log.Warnf("Crawling %s: %v", root, err)
	}
	log.Infof("Found %d candidate files below %s", len(paths), root)

	results, scanErr := scanFiles(context.Background(), st, paths, flags.MaxFileSize, flags.Workers)
	if err := flags.WriteScanResults(results); err != nil {
		log.Errorf("Error writing scan results: %v", err)
		return 1
	}
	if scanErr != nil {
		for _, err := range multierr.Errors(scanErr) {
			log.Errorf("%v", err)
		}
		return 1
	}
	return 0
}

// RunCacheLoadSPDX builds a license cache from a directory of SPDX JSON files
// and returns the exit code passed to os.Exit() in the main binary.
func RunCacheLoadSPDX(flags *cli.Flags) int {
	if flags.Verbose {
		log.SetLogger(&log.DefaultLogger{Verbose: true})
	}

	cfg, err := flags.GetSPDXConfig()
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}
	s := store.New()
	if err := s.LoadSPDX(flags.Paths[0], cfg); err != nil {
		for _, e := range multierr.Errors(err) {
			log.Warnf("Skipping license file: %v", e)
		}
	}
	if s.Len() == 0 {
		log.Errorf("No licenses found in %s", flags.Paths[0])
		return 1
	}
	if err := s.WriteCache(flags.Cache); err != nil {
		log.Errorf("Failed to write cache %s: %v", flags.Cache, err)
		return 1
	}
	log.Infof("Wrote %d licenses to %s", s.Len(), flags.Cache)
	return 0
}

// findFiles returns the sorted paths of all regular files below root whose
// base name matches one of the globs. Unreadable directories are skipped and
// reported in the returned error.
func findFiles(root string, globs []string) ([]string, error) {
	var matchers []glob.Glob
	// Repeated patterns would only be matched twice.
	for _, g := range stringset.New(globs...).Elements() {
		m, err := glob.Compile(g)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", g, err)
		}
		matchers = append(matchers, m)
	}

	var paths []string
	var errs error
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			errs = multierr.Append(errs, err)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		name := d.Name()
		if slices.ContainsFunc(matchers, func(m glob.Glob) bool { return m.Match(name) }) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, multierr.Append(errs, err)
	}
	slices.Sort(paths)
	return paths, errs
}

// scanFiles scans the paths with up to workers files in parallel. Results
// keep the order of paths. Per-file errors are recorded in the results and
// returned together.
func scanFiles(ctx context.Context, st strategy.ScanStrategy, paths []string, maxSize int64, workers int) ([]*cli.FileResult, error) {
	results := make([]*cli.FileResult, len(paths))
	var mu sync.Mutex
	var errs error

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			r := scanFile(ctx, st, path, maxSize)
			results[i] = r
			if r.Error != "" {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %s", path, r.Error))
				mu.Unlock()
			}
			return nil
		})
	}
	// Workers never fail the group; per-file errors are collected above.
	_ = g.Wait()
	return results, errs
}

func scanFile(ctx context.Context, st strategy.ScanStrategy, path string, maxSize int64) *cli.FileResult {
	r := &cli.FileResult{Path: path}
	text, err := readText(path, maxSize)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	res, err := st.Scan(ctx, license.New(text))
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Result = res
	return r
}

// readText reads a file, or stdin for cli.StdinPath. A maxSize of 0 means no
// limit.
func readText(path string, maxSize int64) (string, error) {
	var r io.Reader
	if path == cli.StdinPath {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return "", fmt.Errorf("%w of %d bytes", ErrFileTooLarge, maxSize)
	}
	return string(data), nil
}
