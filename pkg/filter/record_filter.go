// Package filter removes records of unwanted passes or source files before
// a report is built.
package filter

import (
	"strings"

	"github.com/opt-report/pkg/model"
)

// RecordFilter excludes top-level records by pass name or by a substring of
// their source file. The zero value keeps everything.
type RecordFilter struct {
	excludedPasses map[string]bool
	excludedFiles  []string
}

// NewRecordFilter creates a filter from exclusion lists. Empty entries are ignored.
func NewRecordFilter(passes, files []string) *RecordFilter {
	f := &RecordFilter{excludedPasses: make(map[string]bool, len(passes))}
	for _, p := range passes {
		if p = strings.TrimSpace(p); p != "" {
			f.excludedPasses[p] = true
		}
	}
	for _, s := range files {
		if s = strings.TrimSpace(s); s != "" {
			f.excludedFiles = append(f.excludedFiles, s)
		}
	}
	return f
}

// IsEmpty reports whether the filter excludes nothing.
func (f *RecordFilter) IsEmpty() bool {
	return f == nil || (len(f.excludedPasses) == 0 && len(f.excludedFiles) == 0)
}

// Excludes reports whether r should be dropped.
func (f *RecordFilter) Excludes(r *model.Record) bool {
	if f.IsEmpty() {
		return false
	}
	if r.Pass != nil && f.excludedPasses[r.Pass.Name] {
		return true
	}
	if r.Location != nil {
		for _, s := range f.excludedFiles {
			if strings.Contains(r.Location.File, s) {
				return true
			}
		}
	}
	return false
}

// Apply returns new units holding only the kept records, and the number of
// records dropped. The input units are not modified.
func (f *RecordFilter) Apply(units []*model.TranslationUnit) ([]*model.TranslationUnit, int) {
	out := make([]*model.TranslationUnit, 0, len(units))
	dropped := 0
	for _, tu := range units {
		kept := make([]*model.Record, 0, len(tu.Records))
		for _, r := range tu.Records {
			if f.Excludes(r) {
				dropped++
				continue
			}
			kept = append(kept, r)
		}
		out = append(out, &model.TranslationUnit{Filename: tu.Filename, Records: kept})
	}
	return out, dropped
}
