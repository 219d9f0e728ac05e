package statistics

import (
	"sort"

	"github.com/opt-report/pkg/model"
)

// CountByPass counts records per pass over whole record trees, most common
// first with ties ordered by name. Records without a pass are not counted.
func CountByPass(units []*model.TranslationUnit) []model.PassCount {
	counts := make(map[string]int)
	for _, tu := range units {
		for _, root := range tu.Records {
			root.Walk(func(r *model.Record, _ int) {
				if name := r.PassName(); name != "" {
					counts[name]++
				}
			})
		}
	}

	result := make([]model.PassCount, 0, len(counts))
	for name, n := range counts {
		result = append(result, model.PassCount{Pass: name, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Pass < result[j].Pass
	})
	return result
}
