// Package shops turns raw spreadsheet rows into shop records and answers
// listing, search and opening-hours questions about them.
//
// The spreadsheet is maintained by hand, so nothing about its layout is
// assumed beyond the column names: title rows and blank spacer rows above
// the real header are tolerated, and only columns A..AA are ever read.
package shops

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxCols is the number of columns read from every row (A..AA)
const MaxCols = 27

// headerLikeMaxAvgLen is the mean cell length at or below which a row looks like labels
const headerLikeMaxAvgLen = 12

// ErrHeaderNotFound is returned when no row scores as a header
var ErrHeaderNotFound = errors.New("header row not found")

// headerKeywords are matched as substrings of normalised header cells
var headerKeywords = []string{
	"店名",
	"営業",
	"曜日",
	"タグ",
	"備考",
	"dc",
	"サーバー",
	"営業時間",
	"開始",
	"終了",
	"no",
}

// HeaderResult describes the detected header row
type HeaderResult struct {
	HeaderRowIndex int      `json:"headerRowIndex"`
	Headers        []string `json:"headers"`
}

// Normalize trims, collapses all whitespace (full-width spaces included) to
// a single space and lower-cases s.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// truncate limits a row to MaxCols cells
func truncate(row []string) []string {
	if len(row) > MaxCols {
		return row[:MaxCols]
	}
	return row
}

// isAllEmpty reports whether every cell normalises to ""
func isAllEmpty(row []string) bool {
	for _, c := range row {
		if Normalize(c) != "" {
			return false
		}
	}
	return true
}

// scoreRow returns keywordScore*10 + headerLikeBonus for a truncated row
func scoreRow(row []string) int {
	cells := make([]string, 0, len(row))
	totalLen := 0
	for _, c := range row {
		if n := Normalize(c); n != "" {
			cells = append(cells, n)
			totalLen += utf8.RuneCountInString(n)
		}
	}

	score := 0
	for _, key := range headerKeywords {
		for _, c := range cells {
			if strings.Contains(c, key) {
				score++
				break
			}
		}
	}

	bonus := 0
	if len(cells) > 0 && totalLen <= headerLikeMaxAvgLen*len(cells) {
		bonus = 1
	}
	return score*10 + bonus
}

// DetectHeader finds the row most likely to hold column labels and returns
// its index together with normalised, unique header names.
func DetectHeader(rows [][]string) (HeaderResult, error) {
	bestIdx := -1
	bestScore := 0

	for i, raw := range rows {
		row := truncate(raw)
		if isAllEmpty(row) {
			continue
		}
		// Later rows must beat the current best, so the first of equals wins
		if score := scoreRow(row); score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx == -1 {
		return HeaderResult{}, fmt.Errorf("%w: no row matched the expected column names", ErrHeaderNotFound)
	}

	return HeaderResult{
		HeaderRowIndex: bestIdx,
		Headers:        headerNames(truncate(rows[bestIdx])),
	}, nil
}

// headerNames normalises raw labels, fills blanks with col_<n> and suffixes
// repeats with _2, _3, ... in encounter order.
func headerNames(raw []string) []string {
	seen := make(map[string]int, len(raw))
	used := make(map[string]bool, len(raw))
	headers := make([]string, len(raw))

	for idx, h := range raw {
		base := Normalize(h)
		if base == "" {
			base = fmt.Sprintf("col_%d", idx+1)
		}

		n := seen[base] + 1
		name := suffixed(base, n)
		// A literal "x_2" label may already have taken the generated name
		for used[name] {
			n++
			name = suffixed(base, n)
		}
		seen[base] = n
		used[name] = true
		headers[idx] = name
	}
	return headers
}

func suffixed(base string, n int) string {
	if n == 1 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, n)
}
