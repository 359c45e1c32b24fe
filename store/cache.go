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

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/creachadair/stringset"
	"github.com/google/licensescanner/license"
	"github.com/klauspost/compress/zstd"
	bolt "go.etcd.io/bbolt"
)

// cacheVersion changes whenever normalization or the record layout changes,
// since cached texts are stored already normalized.
const cacheVersion = "1"

var (
	metaBucket     = []byte("meta")
	licensesBucket = []byte("licenses")
	versionKey     = []byte("version")
)

// ErrCacheVersion is returned when loading a cache written by an incompatible
// version.
var ErrCacheVersion = errors.New("unsupported cache version")

type variantRecord struct {
	Lines     []string `json:"lines,omitempty"`
	Processed []string `json:"processed"`
}

type entryRecord struct {
	Original   variantRecord   `json:"original"`
	Headers    []variantRecord `json:"headers,omitempty"`
	Alternates []variantRecord `json:"alternates,omitempty"`
	Aliases    []string        `json:"aliases,omitempty"`
}

// WriteCache stores the corpus in a bolt database at path, replacing any
// corpus stored there before. Each license is kept as a zstd compressed JSON
// record under its name.
func (s *Store) WriteCache(path string) error {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	defer enc.Close()

	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return fmt.Errorf("opening cache %s: %w", path, err)
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{metaBucket, licensesBucket} {
			if tx.Bucket(name) == nil {
				continue
			}
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		meta, err := tx.CreateBucket(metaBucket)
		if err != nil {
			return err
		}
		if err := meta.Put(versionKey, []byte(cacheVersion)); err != nil {
			return err
		}
		licenses, err := tx.CreateBucket(licensesBucket)
		if err != nil {
			return err
		}
		for _, name := range s.Licenses() {
			raw, err := json.Marshal(newEntryRecord(s.licenses[name]))
			if err != nil {
				return fmt.Errorf("encoding license %s: %w", name, err)
			}
			if err := licenses.Put([]byte(name), enc.EncodeAll(raw, nil)); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadCache reads a corpus written by WriteCache.
func LoadCache(path string) (*Store, error) {
	db, err := bolt.Open(path, 0444, &bolt.Options{Timeout: 1 * time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	defer db.Close()

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	s := New()
	err = db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(metaBucket)
		if meta == nil {
			return fmt.Errorf("%w: no meta bucket", ErrCacheVersion)
		}
		if v := string(meta.Get(versionKey)); v != cacheVersion {
			return fmt.Errorf("%w: got %q, want %q", ErrCacheVersion, v, cacheVersion)
		}
		licenses := tx.Bucket(licensesBucket)
		if licenses == nil {
			return errors.New("licenses bucket not found in cache")
		}
		return licenses.ForEach(func(name, value []byte) error {
			raw, err := dec.DecodeAll(value, nil)
			if err != nil {
				return fmt.Errorf("decompressing license %s: %w", name, err)
			}
			var rec entryRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return fmt.Errorf("decoding license %s: %w", name, err)
			}
			entry, err := rec.entry()
			if err != nil {
				return fmt.Errorf("restoring license %s: %w", name, err)
			}
			s.licenses[string(name)] = entry
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newVariantRecord(td *license.TextData) variantRecord {
	return variantRecord{Lines: td.AllLines(), Processed: td.ProcessedLines()}
}

func newEntryRecord(e *Entry) *entryRecord {
	rec := &entryRecord{
		Original: newVariantRecord(e.Original),
		Aliases:  e.Aliases.Elements(),
	}
	for _, h := range e.Headers {
		rec.Headers = append(rec.Headers, newVariantRecord(h))
	}
	for _, a := range e.Alternates {
		rec.Alternates = append(rec.Alternates, newVariantRecord(a))
	}
	return rec
}

func (r variantRecord) textData() (*license.TextData, error) {
	return license.FromProcessed(r.Lines, r.Processed)
}

func (r *entryRecord) entry() (*Entry, error) {
	orig, err := r.Original.textData()
	if err != nil {
		return nil, err
	}
	e := &Entry{Original: orig, Aliases: stringset.New(r.Aliases...)}
	for _, h := range r.Headers {
		td, err := h.textData()
		if err != nil {
			return nil, err
		}
		e.Headers = append(e.Headers, td)
	}
	for _, a := range r.Alternates {
		td, err := a.textData()
		if err != nil {
			return nil, err
		}
		e.Alternates = append(e.Alternates, td)
	}
	return e, nil
}
