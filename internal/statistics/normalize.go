// Package statistics normalises record counts and ranks records by hotness.
package statistics

import (
	"github.com/opt-report/pkg/model"
)

// NormalizeResult is the outcome of NormalizeCounts.
type NormalizeResult struct {
	Units      []*model.TranslationUnit
	Purged     int
	HadPrecise bool
}

// NormalizeCounts drops estimated counts once profile data is present: if
// any record at any depth carries a precise count, every top-level record
// whose count is present but not precise is removed. Records without a count are
// always kept. The input units are not modified, and normalising the result
// again removes nothing.
func NormalizeCounts(units []*model.TranslationUnit) *NormalizeResult {
	res := &NormalizeResult{HadPrecise: hasPrecise(units)}

	res.Units = make([]*model.TranslationUnit, 0, len(units))
	for _, tu := range units {
		if !res.HadPrecise {
			res.Units = append(res.Units, tu)
			continue
		}
		kept := make([]*model.Record, 0, len(tu.Records))
		for _, r := range tu.Records {
			if r.HasCount() && !r.Count.IsPrecise() {
				res.Purged++
				continue
			}
			kept = append(kept, r)
		}
		res.Units = append(res.Units, &model.TranslationUnit{Filename: tu.Filename, Records: kept})
	}
	return res
}

func hasPrecise(units []*model.TranslationUnit) bool {
	for _, tu := range units {
		for _, r := range tu.Records {
			found := false
			r.Walk(func(rec *model.Record, _ int) {
				found = found || rec.Count.IsPrecise()
			})
			if found {
				return true
			}
		}
	}
	return false
}
