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

// Package ngram provides word n-gram multisets and the similarity measure used
// to compare them.
package ngram

import "strings"

// Set is a multiset of word n-grams of a fixed size.
type Set struct {
	n      int
	counts map[string]uint32
	size   int
}

// New returns an empty Set of n-grams with n words each.
func New(n int) *Set {
	return &Set{n: n, counts: make(map[string]uint32)}
}

// FromString builds the set of all n-grams of consecutive words in s.
// Words are separated by whitespace. A string with fewer than n words
// produces an empty set.
func FromString(s string, n int) *Set {
	set := New(n)
	words := strings.Fields(s)
	for i := 0; i+n <= len(words); i++ {
		set.Add(strings.Join(words[i:i+n], " "))
	}
	return set
}

// FromCounts restores a Set from previously exported counts.
func FromCounts(n int, counts map[string]uint32) *Set {
	set := New(n)
	for gram, c := range counts {
		set.counts[gram] += c
		set.size += int(c)
	}
	return set
}

// Add inserts one occurrence of gram.
func (s *Set) Add(gram string) {
	s.counts[gram]++
	s.size++
}

// N returns the number of words per n-gram.
func (s *Set) N() int { return s.n }

// Len returns the total number of n-gram occurrences, counting duplicates.
func (s *Set) Len() int { return s.size }

// Count returns how often gram occurs in the set.
func (s *Set) Count(gram string) uint32 { return s.counts[gram] }

// Counts returns a copy of the occurrence counts.
func (s *Set) Counts() map[string]uint32 {
	out := make(map[string]uint32, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// Intersection returns the number of n-gram occurrences the two sets share.
func (s *Set) Intersection(other *Set) int {
	small, large := s, other
	if len(large.counts) < len(small.counts) {
		small, large = large, small
	}
	shared := 0
	for gram, c := range small.counts {
		shared += int(min(c, large.counts[gram]))
	}
	return shared
}

// Dice returns the Sørensen–Dice coefficient of the two multisets, a value in
// [0, 1]. Two empty sets have a coefficient of 0.
func (s *Set) Dice(other *Set) float32 {
	total := s.size + other.size
	if total == 0 {
		return 0
	}
	return 2 * float32(s.Intersection(other)) / float32(total)
}
