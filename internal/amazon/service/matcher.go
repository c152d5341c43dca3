package service

import (
	"regexp"
	"strings"
)

// MatchResult is the confidence signal shown to the user before an upload
// proceeds. It never blocks the import; it only changes the confirmation
// dialog.
type MatchResult string

const (
	Match    MatchResult = "match"
	Mismatch MatchResult = "mismatch"
)

var (
	nonAlnum  = regexp.MustCompile(`[^a-z0-9]`)
	wordSplit = regexp.MustCompile(`[_\s&]+`)
)

// normalizeText lowercases and strips everything outside [a-z0-9].
func normalizeText(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

// MatchFilename heuristically checks whether an uploaded file's name looks
// like it belongs to the given product type code.
//
// The normalized strings are first checked for containment in either
// direction. Failing that, the code is split into words, words of length <= 2
// are discarded, and the result is a match when at least half (rounded up) of
// the remaining words appear in the normalized filename. A code with no
// qualifying words is reported as a mismatch: such a filename shares nothing
// recognizable with the code.
func MatchFilename(filename, productCode string) MatchResult {
	normalizedFilename := normalizeText(filename)
	normalizedCode := normalizeText(productCode)

	if normalizedCode != "" && normalizedFilename != "" {
		if strings.Contains(normalizedFilename, normalizedCode) || strings.Contains(normalizedCode, normalizedFilename) {
			return Match
		}
	}

	var codeWords []string
	for _, w := range wordSplit.Split(strings.ToLower(productCode), -1) {
		if len(w) > 2 {
			codeWords = append(codeWords, w)
		}
	}
	if len(codeWords) == 0 {
		return Mismatch
	}

	matching := 0
	for _, w := range codeWords {
		if strings.Contains(normalizedFilename, w) {
			matching++
		}
	}

	// ceil(len/2) without floats
	if matching >= (len(codeWords)+1)/2 {
		return Match
	}
	return Mismatch
}
