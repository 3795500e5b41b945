// Package pdf reads the embedded text layer of PDF documents.
package pdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageCount returns the number of pages in filename. It fails on files
// pdfcpu cannot parse, which makes it a cheap validity check before text
// extraction.
func PageCount(filename string) (int, error) {
	n, err := api.PageCountFile(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF %q: %w", filename, err)
	}
	return n, nil
}

// parsePageRange parses a page selection such as "1,3-5". An empty range
// selects every page and returns nil.
func parsePageRange(pageRange string) ([]int, error) {
	if strings.TrimSpace(pageRange) == "" {
		return nil, nil
	}

	var pages []int
	for _, part := range strings.Split(pageRange, ",") {
		tokenPages, err := parseRangeToken(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		pages = append(pages, tokenPages...)
	}
	return pages, nil
}

// parseRangeToken parses "3" or "1-5".
func parseRangeToken(part string) ([]int, error) {
	from, to, isRange := strings.Cut(part, "-")
	start, err := parsePage(from)
	if err != nil {
		return nil, err
	}
	if !isRange {
		return []int{start}, nil
	}
	end, err := parsePage(to)
	if err != nil {
		return nil, err
	}
	if start > end {
		return nil, fmt.Errorf("start page %d greater than end page %d", start, end)
	}
	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out, nil
}

func parsePage(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid page number: %q", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("page number must be positive: %d", n)
	}
	return n, nil
}
