// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pages parses user-supplied page range expressions.
package pages

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Parse expands a page range expression like "1-20", "5", or "1-5,10,15-20"
// into an ascending, deduplicated list of page numbers. Every number must be
// within [1, maxPages] and every range ascending; any malformed or
// out-of-bounds token rejects the whole expression.
func Parse(expr string, maxPages int) ([]int, error) {
	seen := make(map[int]bool)

	for _, token := range strings.Split(expr, ",") {
		token = strings.TrimSpace(token)

		if start, end, ok := strings.Cut(token, "-"); ok {
			lo, err := parseBound(start, maxPages)
			if err != nil {
				return nil, err
			}
			hi, err := parseBound(end, maxPages)
			if err != nil {
				return nil, err
			}
			if lo > hi {
				return nil, fmt.Errorf("descending range %q", token)
			}
			for p := lo; p <= hi; p++ {
				seen[p] = true
			}
			continue
		}

		p, err := parseBound(token, maxPages)
		if err != nil {
			return nil, err
		}
		seen[p] = true
	}

	result := make([]int, 0, len(seen))
	for p := range seen {
		result = append(result, p)
	}
	sort.Ints(result)
	return result, nil
}

func parseBound(s string, maxPages int) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid page number %q", strings.TrimSpace(s))
	}
	if p < 1 || p > maxPages {
		return 0, fmt.Errorf("page %d out of range 1-%d", p, maxPages)
	}
	return p, nil
}
