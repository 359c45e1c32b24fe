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

// Package preproc normalizes license and input texts before they are compared.
//
// Normalization happens in two stages. Lines applies changes that never alter
// the number of lines, so that line numbers reported for a match refer to the
// caller's text. Aggressive then reduces a single line to the canonical word
// sequence used for n-gram comparison.
package preproc

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	punctuation = strings.NewReplacer(
		"\t", " ",
		"‘", "'", "’", "'", "‚", "'", "‛", "'",
		"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
		"‐", "-", "‑", "-", "‒", "-", "–", "-", "—", "-", "―", "-",
		"•", "*", "·", "*",
	)

	// A line is treated as a copyright notice if it starts with a copyright
	// marker followed by a symbol or a year placeholder. "Copyright notice"
	// in running text is kept.
	copyrightLine = regexp.MustCompile(`^[^\p{L}\p{N}(©]*(?:copyright\s*(?:\(c\)|©|\d{4}|\[yyyy\]|<year>|\{yyyy\})|\(c\)|©)`)
	nonWord       = regexp.MustCompile(`[^\p{L}\p{N}]+`)

	// Spelling variants that license texts use interchangeably.
	varietal = map[string]string{
		"acknowledgement":  "acknowledgment",
		"acknowledgements": "acknowledgments",
		"analyse":          "analyze",
		"authorisation":    "authorization",
		"authorised":       "authorized",
		"behaviour":        "behavior",
		"centre":           "center",
		"favour":           "favor",
		"licence":          "license",
		"licences":         "licenses",
		"licenced":         "licensed",
		"licencing":        "licensing",
		"organisation":     "organization",
		"recognised":       "recognized",
		"sublicence":       "sublicense",
		"utilise":          "utilize",
	}
)

// Lines splits text into lines and applies the normalizations that keep the
// line structure intact: line endings are unified, diacritics are dropped,
// compatibility characters are folded and typographic punctuation is mapped
// to ASCII. The returned slice always has one element per input line.
func Lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFKC)
	if folded, _, err := transform.String(t, text); err == nil {
		text = folded
	}
	text = punctuation.Replace(text)

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	return lines
}

// Aggressive reduces a single line to lower-case words separated by single
// spaces. Copyright notices become empty lines.
func Aggressive(line string) string {
	line = cases.Fold().String(line)
	if copyrightLine.MatchString(line) {
		return ""
	}
	line = strings.ReplaceAll(line, "&", " and ")
	line = nonWord.ReplaceAllString(line, " ")

	words := strings.Fields(line)
	for i, w := range words {
		if v, ok := varietal[w]; ok {
			words[i] = v
		}
	}
	return strings.Join(words, " ")
}

// AggressiveLines applies Aggressive to every line.
func AggressiveLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = Aggressive(l)
	}
	return out
}
