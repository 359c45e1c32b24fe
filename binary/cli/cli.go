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

// Package cli defines the structures to store the CLI flags used by the license scanner binary.
package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/gobwas/glob"
	"github.com/google/licensescanner/log"
	"github.com/google/licensescanner/stats"
	"github.com/google/licensescanner/store"
	"github.com/google/licensescanner/strategy"
	"github.com/tidwall/jsonc"
	"go.uber.org/multierr"
	"golang.org/x/term"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Subcommands of the binary.
const (
	CommandIdentify = "identify"
	CommandCrawl    = "crawl"
	CommandLoadSPDX = "load-spdx"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"

	// DefaultFormat is the output format used when --format isn't set.
	DefaultFormat = formatJSON
	// DefaultWorkers is the number of files crawled in parallel by default.
	DefaultWorkers = 4
	// StdinPath is the file argument that makes identify read from stdin.
	StdinPath = "-"
)

// DefaultGlobs are the file name patterns crawled when --glob isn't set.
var DefaultGlobs = []string{"LICENSE*", "LICENCE*", "COPYING*", "NOTICE*", "*.license"}

var supportedFormats = []string{formatJSON, formatYAML, formatText}

// StringListFlag is a type to be passed to flag.Var that supports list flags passed as repeated
// flags, e.g. ./licensescanner crawl --glob a --glob b,c the library will call Set("a") then Set("b,c").
type StringListFlag struct {
	set          bool
	value        []string
	defaultValue []string
}

// NewStringListFlag creates a new StringListFlag with the given default value.
func NewStringListFlag(defaultValue []string) StringListFlag {
	return StringListFlag{defaultValue: defaultValue}
}

// Set gets called whenever a new instance of a flag is read during CLI arg parsing.
func (s *StringListFlag) Set(x string) error {
	s.value = append(s.value, strings.Split(x, ",")...)
	s.set = true
	return nil
}

// Get returns the underlying []string value stored by this flag struct.
func (s *StringListFlag) Get() any {
	return s.GetSlice()
}

// GetSlice returns the underlying []string value stored by this flag struct.
func (s *StringListFlag) GetSlice() []string {
	if s.set {
		return s.value
	}
	return s.defaultValue
}

func (s *StringListFlag) String() string {
	if len(s.value) == 0 {
		return ""
	}
	return fmt.Sprint(s.value)
}

// Flags contains a field for all the cli flags that can be set.
type Flags struct {
	Command             string
	Cache               string
	SPDXDir             string
	ConfigFile          string
	Optimize            bool
	ConfidenceThreshold float64
	ShallowLimit        float64
	MaxPasses           uint
	Format              string
	Output              string
	MaxFileSize         int64
	Verbose             bool
	// Paths are the files to identify, or the single directory to crawl or
	// load SPDX licenses from.
	Paths      []string
	Globs      []string
	Workers    int
	StoreTexts bool
	Exclude    []string
}

// ValidateFlags validates the passed command line flags.
func ValidateFlags(flags *Flags) error {
	switch flags.Command {
	case CommandIdentify, CommandCrawl:
		return validateScanFlags(flags)
	case CommandLoadSPDX:
		if flags.Cache == "" {
			return errors.New("--cache needs to be set")
		}
		if len(flags.Paths) != 1 {
			return fmt.Errorf("expected exactly one SPDX directory, got %d", len(flags.Paths))
		}
		if err := validateGlobs(flags.Exclude); err != nil {
			return fmt.Errorf("--exclude: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", flags.Command)
	}
}

func validateScanFlags(flags *Flags) error {
	if (flags.Cache == "") == (flags.SPDXDir == "") {
		return errors.New("exactly one of --cache or --spdx needs to be set")
	}
	if err := validateScore(flags.ConfidenceThreshold); err != nil {
		return fmt.Errorf("--confidence-threshold: %w", err)
	}
	if err := validateScore(flags.ShallowLimit); err != nil {
		return fmt.Errorf("--shallow-limit: %w", err)
	}
	if flags.MaxPasses > 1<<16-1 {
		return fmt.Errorf("--max-passes: %d is too large", flags.MaxPasses)
	}
	if !slices.Contains(supportedFormats, flags.Format) {
		return fmt.Errorf("--format %q not recognized, supported formats are %v", flags.Format, supportedFormats)
	}
	if flags.MaxFileSize < 0 {
		return errors.New("--max-file-size cannot be negative")
	}
	if err := validateGlobs(flags.Exclude); err != nil {
		return fmt.Errorf("--exclude: %w", err)
	}
	if flags.Command == CommandIdentify {
		if len(flags.Paths) == 0 {
			return errors.New("no files to identify")
		}
		return nil
	}
	if len(flags.Paths) != 1 {
		return fmt.Errorf("expected exactly one directory to crawl, got %d", len(flags.Paths))
	}
	if flags.Workers < 1 {
		return errors.New("--workers needs to be at least 1")
	}
	if len(flags.Globs) == 0 {
		return errors.New("--glob cannot be empty")
	}
	if err := validateGlobs(flags.Globs); err != nil {
		return fmt.Errorf("--glob: %w", err)
	}
	return nil
}

func validateScore(score float64) error {
	if score < 0 || score > 1 {
		return fmt.Errorf("%v is not between 0 and 1", score)
	}
	return nil
}

func validateGlobs(globs []string) error {
	for _, g := range globs {
		if len(g) == 0 {
			return errors.New("list item cannot be left empty")
		}
		if _, err := glob.Compile(g); err != nil {
			return err
		}
	}
	return nil
}

// FileConfig is the content of a --config file. Unset fields keep the
// flag's value.
type FileConfig struct {
	Cache               *string  `json:"cache" yaml:"cache" toml:"cache"`
	SPDXDir             *string  `json:"spdx" yaml:"spdx" toml:"spdx"`
	Optimize            *bool    `json:"optimize" yaml:"optimize" toml:"optimize"`
	ConfidenceThreshold *float64 `json:"confidence_threshold" yaml:"confidence_threshold" toml:"confidence_threshold"`
	ShallowLimit        *float64 `json:"shallow_limit" yaml:"shallow_limit" toml:"shallow_limit"`
	MaxPasses           *uint    `json:"max_passes" yaml:"max_passes" toml:"max_passes"`
	Format              *string  `json:"format" yaml:"format" toml:"format"`
	MaxFileSize         *int64   `json:"max_file_size" yaml:"max_file_size" toml:"max_file_size"`
	Globs               []string `json:"globs" yaml:"globs" toml:"globs"`
	Workers             *int     `json:"workers" yaml:"workers" toml:"workers"`
	Exclude             []string `json:"exclude" yaml:"exclude" toml:"exclude"`
}

// LoadConfigFile reads a config file. The format is picked by extension:
// YAML (.yaml, .yml), TOML (.toml), JSON with comments (.json, .jsonc) or
// INI (.ini, keys in the default section).
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &FileConfig{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(cfg); errors.Is(err, io.EOF) {
			// Empty file.
			err = nil
		}
	case ".toml":
		var md toml.MetaData
		md, err = toml.Decode(string(data), cfg)
		if undecoded := md.Undecoded(); err == nil && len(undecoded) > 0 {
			err = fmt.Errorf("unknown keys %v", undecoded)
		}
	case ".json", ".jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	case ".ini":
		err = parseINIConfig(data, cfg)
	default:
		return nil, fmt.Errorf("config file %s has unsupported extension %q, want one of .yaml, .yml, .toml, .json, .jsonc or .ini", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func parseINIConfig(data []byte, cfg *FileConfig) error {
	f, err := ini.Load(data)
	if err != nil {
		return err
	}
	sec := f.Section(ini.DefaultSection)
	var errs error
	for _, key := range sec.Keys() {
		var err error
		switch key.Name() {
		case "cache":
			cfg.Cache = ptr(key.String())
		case "spdx":
			cfg.SPDXDir = ptr(key.String())
		case "format":
			cfg.Format = ptr(key.String())
		case "optimize":
			cfg.Optimize, err = parseINIValue(key.Bool)
		case "confidence_threshold":
			cfg.ConfidenceThreshold, err = parseINIValue(key.Float64)
		case "shallow_limit":
			cfg.ShallowLimit, err = parseINIValue(key.Float64)
		case "max_passes":
			cfg.MaxPasses, err = parseINIValue(key.Uint)
		case "max_file_size":
			cfg.MaxFileSize, err = parseINIValue(key.Int64)
		case "workers":
			cfg.Workers, err = parseINIValue(key.Int)
		case "globs":
			cfg.Globs = key.Strings(",")
		case "exclude":
			cfg.Exclude = key.Strings(",")
		default:
			err = errors.New("unknown key")
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", key.Name(), err))
		}
	}
	return errs
}

func parseINIValue[T any](parse func() (T, error)) (*T, error) {
	v, err := parse()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func ptr[T any](v T) *T { return &v }

// Apply copies the set fields of the config file into flags. Flags for which
// explicit returns true were given on the command line and are left alone.
func (c *FileConfig) Apply(flags *Flags, explicit func(name string) bool) {
	setString := func(name string, dst *string, src *string) {
		if src != nil && !explicit(name) {
			*dst = *src
		}
	}
	setFloat := func(name string, dst *float64, src *float64) {
		if src != nil && !explicit(name) {
			*dst = *src
		}
	}
	setList := func(name string, dst *[]string, src []string) {
		if src != nil && !explicit(name) {
			*dst = src
		}
	}
	setString("cache", &flags.Cache, c.Cache)
	setString("spdx", &flags.SPDXDir, c.SPDXDir)
	setString("format", &flags.Format, c.Format)
	setFloat("confidence-threshold", &flags.ConfidenceThreshold, c.ConfidenceThreshold)
	setFloat("shallow-limit", &flags.ShallowLimit, c.ShallowLimit)
	setList("glob", &flags.Globs, c.Globs)
	setList("exclude", &flags.Exclude, c.Exclude)
	if c.Optimize != nil && !explicit("optimize") {
		flags.Optimize = *c.Optimize
	}
	if c.MaxPasses != nil && !explicit("max-passes") {
		flags.MaxPasses = *c.MaxPasses
	}
	if c.MaxFileSize != nil && !explicit("max-file-size") {
		flags.MaxFileSize = *c.MaxFileSize
	}
	if c.Workers != nil && !explicit("workers") {
		flags.Workers = *c.Workers
	}
}

// GetSPDXConfig returns the loader config for the SPDX related flags.
func (f *Flags) GetSPDXConfig() (*store.SPDXConfig, error) {
	cfg := &store.SPDXConfig{IncludeTexts: f.StoreTexts}
	if len(f.Exclude) == 0 {
		return cfg, nil
	}
	// Several patterns are combined into a single alternation.
	g, err := glob.Compile("{" + strings.Join(f.Exclude, ",") + "}")
	if err != nil {
		return nil, fmt.Errorf("--exclude: %w", err)
	}
	cfg.Exclude = g
	return cfg, nil
}

// LoadStore returns the license corpus from the --cache file or the --spdx
// directory. SPDX files that fail to load are logged and skipped.
func (f *Flags) LoadStore() (*store.Store, error) {
	if f.Cache != "" {
		log.Infof("Loading license cache %s", f.Cache)
		return store.LoadCache(f.Cache)
	}
	cfg, err := f.GetSPDXConfig()
	if err != nil {
		return nil, err
	}
	s := store.New()
	if err := s.LoadSPDX(f.SPDXDir, cfg); err != nil {
		errs := multierr.Errors(err)
		if s.Len() == 0 {
			return nil, err
		}
		for _, e := range errs {
			log.Warnf("Skipping license file: %v", e)
		}
	}
	if s.Len() == 0 {
		return nil, fmt.Errorf("no licenses found in %s", f.SPDXDir)
	}
	return s, nil
}

// GetStrategy returns the scan strategy configured by the flags.
func (f *Flags) GetStrategy(e strategy.Engine) strategy.ScanStrategy {
	var c stats.Collector = stats.NoopCollector{}
	if f.Verbose {
		c = stats.LogCollector{}
	}
	return strategy.New(e).
		WithConfidenceThreshold(float32(f.ConfidenceThreshold)).
		WithShallowLimit(float32(f.ShallowLimit)).
		WithOptimize(f.Optimize).
		WithMaxPasses(uint16(f.MaxPasses)).
		WithStats(c)
}

// FileResult is the scan outcome of a single file.
type FileResult struct {
	Path   string               `json:"path" yaml:"path"`
	Result *strategy.ScanResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string               `json:"error,omitempty" yaml:"error,omitempty"`
}

// WriteScanResults writes the results to the --output file, or to stdout if
// it isn't set. Text written to a terminal is styled.
func (f *Flags) WriteScanResults(results []*FileResult) (err error) {
	if f.Output == "" {
		st := plainStyle
		if term.IsTerminal(int(os.Stdout.Fd())) {
			st = terminalStyle
		}
		return writeResults(os.Stdout, f.Format, results, st)
	}
	log.Infof("Writing scan results to %s", f.Output)
	out, err := os.Create(f.Output)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()
	return writeResults(out, f.Format, results, plainStyle)
}

// WriteResults writes the results to w in the given format.
func WriteResults(w io.Writer, format string, results []*FileResult) error {
	return writeResults(w, format, results, plainStyle)
}

func writeResults(w io.Writer, format string, results []*FileResult, st textStyle) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	case formatText:
		return writeText(w, results, st)
	default:
		return fmt.Errorf("output format %q not recognized, supported formats are %v", format, supportedFormats)
	}
}

type textStyle struct {
	license func(string) string
	none    func(string) string
	err     func(string) string
}

func unstyled(s string) string { return s }

func styled(style lipgloss.Style) func(string) string {
	return func(s string) string { return style.Render(s) }
}

var (
	plainStyle    = textStyle{license: unstyled, none: unstyled, err: unstyled}
	terminalStyle = textStyle{
		license: styled(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))),
		none:    styled(lipgloss.NewStyle().Faint(true)),
		err:     styled(lipgloss.NewStyle().Foreground(lipgloss.Color("1"))),
	}
)

// writeText prints one line per file followed by its contained licenses.
// Line numbers are printed 1-based.
func writeText(w io.Writer, results []*FileResult, st textStyle) error {
	for _, r := range results {
		var err error
		switch {
		case r.Error != "":
			_, err = fmt.Fprintf(w, "%s: %s\n", r.Path, st.err("error: "+r.Error))
		case r.Result == nil:
			_, err = fmt.Fprintf(w, "%s: %s\n", r.Path, st.none("not scanned"))
		case r.Result.License != nil:
			_, err = fmt.Fprintf(w, "%s: %s (%v) score %.4f\n", r.Path, st.license(r.Result.License.Name), r.Result.License.Kind, r.Result.Score)
		default:
			_, err = fmt.Fprintf(w, "%s: %s (score %.4f)\n", r.Path, st.none("no license identified"), r.Result.Score)
		}
		if err != nil {
			return err
		}
		if r.Result == nil {
			continue
		}
		for _, c := range r.Result.Containing {
			if _, err := fmt.Fprintf(w, "  contains %s (%v) at lines %d-%d, score %.4f\n",
				st.license(c.License.Name), c.License.Kind, c.LineRange.Start+1, c.LineRange.End+1, c.Score); err != nil {
				return err
			}
		}
	}
	return nil
}
