package sqlite

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// maxExpansionsPerTerm caps how many vocabulary terms one query term may
// expand to, keeping the MATCH expression small on large indexes.
const maxExpansionsPerTerm = 10

// buildMatchExpression turns a free-text query into an FTS5 MATCH
// expression. Each query term is expanded against the index vocabulary
// within a length-scaled edit-distance bound, and all variants are
// OR-combined. Returns "" when the query has no usable terms.
func (s *Store) buildMatchExpression(ctx context.Context, index, query string) (string, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return "", nil
	}

	seen := make(map[string]bool)
	var variants []string
	add := func(term string) {
		if !seen[term] {
			seen[term] = true
			variants = append(variants, quoteTerm(term))
		}
	}

	for _, term := range terms {
		add(term)

		maxDist := editDistanceBound(term)
		if maxDist == 0 {
			continue
		}

		expanded, err := s.expandTerm(ctx, index, term, maxDist)
		if err != nil {
			return "", err
		}
		for _, variant := range expanded {
			add(variant)
		}
	}

	return strings.Join(variants, " OR "), nil
}

// editDistanceBound scales the allowed edit distance with term length,
// mirroring the usual "AUTO" fuzziness: very short terms must match
// exactly, mid-length terms tolerate one edit, longer terms two.
func editDistanceBound(term string) int {
	switch n := utf8.RuneCountInString(term); {
	case n < 3:
		return 0
	case n < 5:
		return 1
	default:
		return 2
	}
}

// expandTerm scans the index vocabulary for terms within maxDist edits.
// The length filter prunes the scan: a term at edit distance d differs in
// length by at most d.
func (s *Store) expandTerm(ctx context.Context, index, term string, maxDist int) ([]string, error) {
	termLen := utf8.RuneCountInString(term)

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(
			"SELECT term FROM %s WHERE length(term) BETWEEN ? AND ?",
			vocabTablePrefix+index,
		),
		termLen-maxDist, termLen+maxDist,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning vocabulary of %s: %w", index, err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var candidate string
		if err := rows.Scan(&candidate); err != nil {
			return nil, err
		}
		if candidate == term {
			continue
		}
		if levenshtein.ComputeDistance(term, candidate) <= maxDist {
			matches = append(matches, candidate)
			if len(matches) >= maxExpansionsPerTerm {
				break
			}
		}
	}

	return matches, rows.Err()
}

// tokenize lowercases the query and splits it into alphanumeric terms,
// matching what the FTS5 unicode61 tokenizer does to indexed content.
func tokenize(query string) []string {
	return strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// quoteTerm wraps a term as an FTS5 string literal.
func quoteTerm(term string) string {
	return `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
}
