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

// The licensescanner command identifies license texts in files, using a
// corpus loaded from SPDX license-list-data or from a prebuilt cache.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/licensescanner/binary/cli"
	"github.com/google/licensescanner/binary/scanrunner"
	"github.com/google/licensescanner/log"
	"github.com/google/licensescanner/strategy"
)

const usage = `usage:
  licensescanner identify [flags] FILE...
  licensescanner crawl [flags] DIR
  licensescanner cache load-spdx --cache OUT [flags] DIR`

const configUsage = "Path of a YAML (.yaml, .yml), TOML (.toml), JSON (.json, .jsonc) or INI (.ini) file " +
	"with defaults for the other flags. Flags given on the command line take precedence."

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var subcommand string
	if len(args) >= 2 {
		subcommand = args[1]
	}
	switch subcommand {
	case cli.CommandIdentify:
		flags, err := parseScanFlags(cli.CommandIdentify, args[2:])
		if err != nil {
			log.Errorf("Error parsing CLI args: %v", err)
			return 1
		}
		return scanrunner.RunIdentify(flags)
	case cli.CommandCrawl:
		flags, err := parseScanFlags(cli.CommandCrawl, args[2:])
		if err != nil {
			log.Errorf("Error parsing CLI args: %v", err)
			return 1
		}
		return scanrunner.RunCrawl(flags)
	case "cache":
		if len(args) < 3 || args[2] != cli.CommandLoadSPDX {
			log.Errorf("Unknown cache command\n%s", usage)
			return 1
		}
		flags, err := parseLoadSPDXFlags(args[3:])
		if err != nil {
			log.Errorf("Error parsing CLI args: %v", err)
			return 1
		}
		return scanrunner.RunCacheLoadSPDX(flags)
	default:
		log.Errorf("Unknown command %q\n%s", subcommand, usage)
		return 1
	}
}

func parseScanFlags(command string, args []string) (*cli.Flags, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	cache := fs.String("cache", "", "Path of a license cache created with 'licensescanner cache load-spdx'")
	spdxDir := fs.String("spdx", "", "Directory of SPDX license-list-data JSON files (json/details) to load the licenses from")
	configFile := fs.String("config", "", configUsage)
	optimize := fs.Bool("optimize", false, "Search for licenses within parts of the text, e.g. several licenses concatenated in one file")
	threshold := fs.Float64("confidence-threshold", 0.8, "Score a match needs to exceed to be reported")
	shallowLimit := fs.Float64("shallow-limit", 0.99, "Whole-text score above which no further licenses are searched for")
	maxPasses := fs.Uint("max-passes", uint(strategy.DefaultMaxPasses), "Maximum number of licenses searched for within a text when --optimize is set")
	format := fs.String("format", cli.DefaultFormat, "Output format: json, yaml or text")
	output := fs.String("output", "", "Path of the output file. Results are printed to stdout if unset.")
	maxFileSize := fs.Int64("max-file-size", 0, "Files larger than this many bytes are not scanned. 0 means no limit.")
	verbose := fs.Bool("verbose", false, "Enable this to print debug logs")
	var exclude cli.StringListFlag
	fs.Var(&exclude, "exclude", "Comma-separated list of globs of SPDX license IDs not to load with --spdx")
	globs := cli.NewStringListFlag(cli.DefaultGlobs)
	workers := new(int)
	if command == cli.CommandCrawl {
		fs.Var(&globs, "glob", "Comma-separated list of globs of file names to scan")
		workers = fs.Int("workers", cli.DefaultWorkers, "Number of files scanned in parallel")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	flags := &cli.Flags{
		Command:             command,
		Cache:               *cache,
		SPDXDir:             *spdxDir,
		ConfigFile:          *configFile,
		Optimize:            *optimize,
		ConfidenceThreshold: *threshold,
		ShallowLimit:        *shallowLimit,
		MaxPasses:           *maxPasses,
		Format:              *format,
		Output:              *output,
		MaxFileSize:         *maxFileSize,
		Verbose:             *verbose,
		Paths:               fs.Args(),
		Globs:               globs.GetSlice(),
		Workers:             *workers,
		Exclude:             exclude.GetSlice(),
	}
	if err := applyConfigFile(fs, flags); err != nil {
		return nil, err
	}
	if err := cli.ValidateFlags(flags); err != nil {
		return nil, err
	}
	return flags, nil
}

func parseLoadSPDXFlags(args []string) (*cli.Flags, error) {
	fs := flag.NewFlagSet(cli.CommandLoadSPDX, flag.ContinueOnError)
	cache := fs.String("cache", "", "Path of the license cache to write")
	storeTexts := fs.Bool("store-texts", false, "Keep the license texts in the cache. Without them the cache is smaller.")
	var exclude cli.StringListFlag
	fs.Var(&exclude, "exclude", "Comma-separated list of globs of SPDX license IDs not to load")
	verbose := fs.Bool("verbose", false, "Enable this to print debug logs")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	flags := &cli.Flags{
		Command:    cli.CommandLoadSPDX,
		Cache:      *cache,
		StoreTexts: *storeTexts,
		Exclude:    exclude.GetSlice(),
		Verbose:    *verbose,
		Paths:      fs.Args(),
	}
	if err := cli.ValidateFlags(flags); err != nil {
		return nil, err
	}
	return flags, nil
}

// applyConfigFile fills the flags that weren't set on the command line from
// the --config file.
func applyConfigFile(fs *flag.FlagSet, flags *cli.Flags) error {
	if flags.ConfigFile == "" {
		return nil
	}
	cfg, err := cli.LoadConfigFile(flags.ConfigFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("--config %s does not exist", flags.ConfigFile)
		}
		return err
	}
	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	cfg.Apply(flags, func(name string) bool { return explicit[name] })
	return nil
}
