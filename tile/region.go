package tile

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/mogaika/worldtiles/source"
)

func normalizeRegion(r string) string {
	return cases.Fold().String(strings.TrimSpace(r))
}

// voteRegion returns most common region of cells, first seen wins ties.
// Priority region overrides the vote once it reaches threshold.
func voteRegion(cells []*source.Cell, priority string, threshold int, fallback string) string {
	counts := make(map[string]int)
	order := make([]string, 0, 4)
	for _, cell := range cells {
		r := normalizeRegion(cell.Region)
		if r == "" {
			continue
		}
		if _, ok := counts[r]; !ok {
			order = append(order, r)
		}
		counts[r]++
	}
	if len(order) == 0 {
		return fallback
	}

	most := order[0]
	for _, r := range order[1:] {
		if counts[r] > counts[most] {
			most = r
		}
	}

	if p := normalizeRegion(priority); p != "" && counts[p] >= threshold {
		most = p
	}
	return most
}
