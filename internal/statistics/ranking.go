package statistics

import (
	"fmt"
	"sort"

	"github.com/opt-report/pkg/model"
)

// SortKey orders records by descending count. Records without a count share
// the key of a zero count.
func SortKey(r *model.Record) float64 {
	if !r.HasCount() {
		return 0
	}
	return -r.Count.Value
}

// Rank returns every top-level record in unit order, stably sorted by
// SortKey. Equal keys keep input order.
func Rank(units []*model.TranslationUnit) []*model.Record {
	ranked := make([]*model.Record, 0, model.CountRecords(units))
	for _, tu := range units {
		ranked = append(ranked, tu.Records...)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return SortKey(ranked[i]) < SortKey(ranked[j])
	})
	return ranked
}

// Top returns at most n records of a ranked slice. n <= 0 returns all.
func Top(ranked []*model.Record, n int) []*model.Record {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

// HighestCount returns the largest count over top-level records, or 0 when
// no record carries a count.
func HighestCount(units []*model.TranslationUnit) float64 {
	highest := 0.0
	for _, tu := range units {
		for _, r := range tu.Records {
			if r.HasCount() && r.Count.Value > highest {
				highest = r.Count.Value
			}
		}
	}
	return highest
}

// Hotness returns the record count as a percentage of highest. A highest
// of 0 is treated as 1. ok is false when the record has no count.
func Hotness(r *model.Record, highest float64) (hotness float64, ok bool) {
	if !r.HasCount() {
		return 0, false
	}
	if highest == 0 {
		highest = 1
	}
	return 100 * r.Count.Value / highest, true
}

// FormatHotness renders the hotness with two decimals, or "" for a record
// without a count.
func FormatHotness(r *model.Record, highest float64) string {
	h, ok := Hotness(r, highest)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.2f", h)
}
