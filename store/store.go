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

// Package store holds the corpus of reference license texts and finds the
// entry that best matches a given text.
package store

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"bitbucket.org/creachadair/stringset"
	"github.com/google/licensescanner/license"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmptyStore is returned when analyzing against a store without licenses.
	ErrEmptyStore = errors.New("store contains no licenses")
	// ErrUnknownLicense is returned when referring to a license the store doesn't know.
	ErrUnknownLicense = errors.New("license not present in store")
)

// Entry is a single license of the corpus with all its known texts.
type Entry struct {
	Original   *license.TextData
	Headers    []*license.TextData
	Alternates []*license.TextData
	Aliases    stringset.Set
}

// Match is the result of an analysis: the best matching corpus text and its
// score.
type Match struct {
	Score float32
	Name  string
	Kind  license.Kind
	// Data is the corpus text that matched. It can be used to localize the
	// same license within another text.
	Data *license.TextData
}

// Store is a corpus of licenses. A Store may be analyzed from several
// goroutines at once but must not be modified while doing so.
type Store struct {
	licenses map[string]*Entry
}

// New returns an empty Store.
func New() *Store {
	return &Store{licenses: make(map[string]*Entry)}
}

// Len returns the number of licenses in the store.
func (s *Store) Len() int { return len(s.licenses) }

// Licenses returns the names of all licenses in sorted order.
func (s *Store) Licenses() []string {
	names := make([]string, 0, len(s.licenses))
	for name := range s.licenses {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AddLicense adds a license with its original text, replacing any existing
// entry of the same name.
func (s *Store) AddLicense(name string, data *license.TextData) {
	s.licenses[name] = &Entry{Original: data, Aliases: stringset.New()}
}

// AddVariant adds a header or alternate text to an existing license.
func (s *Store) AddVariant(name string, kind license.Kind, data *license.TextData) error {
	entry, ok := s.licenses[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLicense, name)
	}
	switch kind {
	case license.Header:
		entry.Headers = append(entry.Headers, data)
	case license.Alternate:
		entry.Alternates = append(entry.Alternates, data)
	default:
		return fmt.Errorf("cannot add a %v variant to %q, use AddLicense", kind, name)
	}
	return nil
}

// Original returns the original text of a license.
func (s *Store) Original(name string) (*license.TextData, bool) {
	entry, ok := s.licenses[name]
	if !ok {
		return nil, false
	}
	return entry.Original, true
}

// Entry returns the full corpus entry of a license.
func (s *Store) Entry(name string) (*Entry, bool) {
	entry, ok := s.licenses[name]
	return entry, ok
}

// Aliases returns the alternative names of a license in sorted order.
func (s *Store) Aliases(name string) ([]string, error) {
	entry, ok := s.licenses[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLicense, name)
	}
	return entry.Aliases.Elements(), nil
}

// SetAliases replaces the alternative names of a license.
func (s *Store) SetAliases(name string, aliases ...string) error {
	entry, ok := s.licenses[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLicense, name)
	}
	entry.Aliases = stringset.New(aliases...)
	return nil
}

// Analyze compares text against every text of every license and returns the
// best match. A text that resembles nothing still produces a match, with a low
// score. Ties go to the license whose name sorts first, and within a license
// to the original text.
func (s *Store) Analyze(ctx context.Context, text *license.TextData) (*Match, error) {
	if len(s.licenses) == 0 {
		return nil, ErrEmptyStore
	}
	names := s.Licenses()
	best := make([]*Match, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			best[i] = bestVariant(name, s.licenses[name], text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var m *Match
	for _, candidate := range best {
		if m == nil || candidate.Score > m.Score {
			m = candidate
		}
	}
	return m, nil
}

func bestVariant(name string, entry *Entry, text *license.TextData) *Match {
	m := &Match{Name: name, Kind: license.Original, Data: entry.Original, Score: text.MatchScore(entry.Original)}
	consider := func(kind license.Kind, variants []*license.TextData) {
		for _, v := range variants {
			if score := text.MatchScore(v); score > m.Score {
				m = &Match{Name: name, Kind: kind, Data: v, Score: score}
			}
		}
	}
	consider(license.Header, entry.Headers)
	consider(license.Alternate, entry.Alternates)
	return m
}
