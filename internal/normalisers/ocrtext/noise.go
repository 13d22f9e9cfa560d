package ocrtext

import (
	"regexp"
	"strings"
)

const (
	// repeatTokenLimit is the maximum number of times a single token may
	// occur within one line before the line is considered hallucinated.
	repeatTokenLimit = 10

	// repeatCheckMinTokens gates the repeat check: lines with this many
	// tokens or fewer are exempt, avoiding false positives on legitimate
	// short repeated content.
	repeatCheckMinTokens = 5

	// consecutiveRunLimit drops a line when any token repeats this many
	// times back-to-back. Go's RE2 has no backreferences, so the
	// "word repeated 5+ times with separators" signature is a token scan
	// rather than a pattern.
	consecutiveRunLimit = 5
)

// defaultGarbagePatterns are hallucination signatures observed in VLM OCR
// output on dense tables and low-quality scans. They are specific to one
// provider's failure mode and are replaceable via WithGarbagePatterns.
var defaultGarbagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`흫사무수단lage`),
	regexp.MustCompile(`희사무수단lage`),
	regexp.MustCompile(`사원법law`),
	regexp.MustCompile(`(majority의\s*){5,}`),
	regexp.MustCompile(`(minority의\s*){5,}`),
}

// NoiseFilter removes OCR hallucination noise from extracted text,
// operating line by line. Lines not dropped are kept verbatim and
// rejoined in their original order.
type NoiseFilter struct {
	patterns []*regexp.Regexp
}

// NewNoiseFilter creates a noise filter with the given denylist patterns.
// A nil slice selects the default signatures.
func NewNoiseFilter(patterns []*regexp.Regexp) *NoiseFilter {
	if patterns == nil {
		patterns = defaultGarbagePatterns
	}
	return &NoiseFilter{patterns: patterns}
}

// Filter returns text with hallucinated lines removed.
func (f *NoiseFilter) Filter(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		if f.isNoise(line) {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}

// isNoise reports whether a line matches any hallucination signature.
func (f *NoiseFilter) isNoise(line string) bool {
	tokens := strings.Fields(line)

	if len(tokens) > repeatCheckMinTokens && maxTokenCount(tokens) > repeatTokenLimit {
		return true
	}

	if longestRun(tokens) >= consecutiveRunLimit {
		return true
	}

	for _, p := range f.patterns {
		if p.MatchString(line) {
			return true
		}
	}

	return false
}

// maxTokenCount returns the highest occurrence count of any token.
func maxTokenCount(tokens []string) int {
	counts := make(map[string]int, len(tokens))
	max := 0
	for _, tok := range tokens {
		counts[tok]++
		if counts[tok] > max {
			max = counts[tok]
		}
	}
	return max
}

// longestRun returns the length of the longest run of identical
// consecutive tokens.
func longestRun(tokens []string) int {
	longest, run := 0, 0
	for i, tok := range tokens {
		if i > 0 && tok == tokens[i-1] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
