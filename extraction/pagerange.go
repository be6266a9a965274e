package extraction

import (
	"sort"
	"strconv"
	"strings"
)

// ResolvePageRange parses a page range expression into a sorted list of
// zero-based page indices.
//
// Supported forms:
//   - "0-5"       -> [0 1 2 3 4 5]
//   - "0,2,4"     -> [0 2 4]
//   - "0-2,5,7-9" -> [0 1 2 5 7 8 9]
//   - ""          -> all pages
//
// Range bounds are clamped to the document: a range clause whose clamped
// start exceeds its clamped end contributes nothing, and a single page
// outside the document is dropped. Neither is an error. A clause that does
// not parse as an integer or integer pair returns *InvalidRangeError.
func ResolvePageRange(expr string, totalPages int) ([]int, error) {
	if expr == "" {
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i
		}
		return pages, nil
	}

	seen := make(map[int]struct{})
	for _, clause := range strings.Split(expr, ",") {
		clause = strings.TrimSpace(clause)
		if strings.Contains(clause, "-") {
			bounds := strings.SplitN(clause, "-", 2)
			start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
			if err != nil {
				return nil, &InvalidRangeError{Clause: clause}
			}
			end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
			if err != nil {
				return nil, &InvalidRangeError{Clause: clause}
			}
			if start < 0 {
				start = 0
			}
			if end > totalPages-1 {
				end = totalPages - 1
			}
			for n := start; n <= end; n++ {
				seen[n] = struct{}{}
			}
		} else {
			n, err := strconv.Atoi(clause)
			if err != nil {
				return nil, &InvalidRangeError{Clause: clause}
			}
			if n >= 0 && n < totalPages {
				seen[n] = struct{}{}
			}
		}
	}

	pages := make([]int, 0, len(seen))
	for n := range seen {
		pages = append(pages, n)
	}
	sort.Ints(pages)
	return pages, nil
}
