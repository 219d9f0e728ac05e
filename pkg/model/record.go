// Package model defines the optimization record graph consumed by the report generator.
package model

import (
	"fmt"
	"math"
)

// Count qualities. GCC reports several flavours of profile quality; only
// QualityPrecise and QualityAdjusted are derived from real profile data.
const (
	QualityPrecise   = "precise"
	QualityAdjusted  = "adjusted"
	QualityEstimated = "estimated"
	QualityGuessed   = "guessed"
)

// KindScope marks a record that only wraps the records nested inside it.
const KindScope = "scope"

// Location is a position in a source file.
type Location struct {
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// String renders the location as file:line:column.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Count is an execution-count measurement attached to a record.
type Count struct {
	Value   float64 `json:"value" yaml:"value"`
	Quality string  `json:"quality" yaml:"quality"`
}

// IsPrecise reports whether the count comes from profile data rather than
// a static estimate.
func (c *Count) IsPrecise() bool {
	if c == nil {
		return false
	}
	return c.Quality == QualityPrecise || c.Quality == QualityAdjusted
}

// Pass identifies the compiler phase that produced a record.
type Pass struct {
	Name string `json:"name" yaml:"name"`
}

// InlineFrame is one step of an inlining chain.
type InlineFrame struct {
	Function string    `json:"function" yaml:"function"`
	Site     *Location `json:"site,omitempty" yaml:"site,omitempty"`
}

// Record is a single optimization note. Records form a tree: a parent owns
// its children exclusively.
type Record struct {
	Kind          string        `json:"kind" yaml:"kind"`
	Location      *Location     `json:"location,omitempty" yaml:"location,omitempty"`
	Count         *Count        `json:"count,omitempty" yaml:"count,omitempty"`
	Pass          *Pass         `json:"pass,omitempty" yaml:"pass,omitempty"`
	ImplLocation  *Location     `json:"impl_location,omitempty" yaml:"impl_location,omitempty"`
	Message       []MessageItem `json:"message,omitempty" yaml:"message,omitempty"`
	Children      []*Record     `json:"children,omitempty" yaml:"children,omitempty"`
	InliningChain []InlineFrame `json:"inlining_chain,omitempty" yaml:"inlining_chain,omitempty"`
}

// HasCount reports whether the record carries a count.
func (r *Record) HasCount() bool {
	return r.Count != nil
}

// PassName returns the producing pass name, or "" if unknown.
func (r *Record) PassName() string {
	if r.Pass == nil {
		return ""
	}
	return r.Pass.Name
}

// Walk calls fn for r and every descendant in depth-first pre-order.
// depth is 0 for r itself.
func (r *Record) Walk(fn func(rec *Record, depth int)) {
	r.walk(fn, 0)
}

func (r *Record) walk(fn func(rec *Record, depth int), depth int) {
	fn(r, depth)
	for _, child := range r.Children {
		child.walk(fn, depth+1)
	}
}

// Validate checks the record tree against the model invariants.
func (r *Record) Validate() error {
	var err error
	r.Walk(func(rec *Record, _ int) {
		if err != nil {
			return
		}
		if rec.Count == nil {
			return
		}
		switch v := rec.Count.Value; {
		case math.IsNaN(v) || math.IsInf(v, 0):
			err = fmt.Errorf("count %v is not a finite number", v)
		case v < 0:
			err = fmt.Errorf("negative count %v", v)
		}
		if err != nil && rec.Location != nil {
			err = fmt.Errorf("%s: %w", rec.Location, err)
		}
	})
	return err
}

// TranslationUnit holds the top-level records of one compiled source file.
type TranslationUnit struct {
	Filename string    `json:"filename" yaml:"filename"`
	Records  []*Record `json:"records" yaml:"records"`
}

// Validate checks every record of the unit.
func (tu *TranslationUnit) Validate() error {
	for i, rec := range tu.Records {
		if rec == nil {
			return fmt.Errorf("unit %s: record %d is nil", tu.Filename, i)
		}
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("unit %s: %w", tu.Filename, err)
		}
	}
	return nil
}

// Dump is the on-disk envelope produced by the record parser.
type Dump struct {
	Units []*TranslationUnit `json:"units" yaml:"units"`
}

// CountRecords returns the number of top-level records over all units.
func CountRecords(units []*TranslationUnit) int {
	n := 0
	for _, tu := range units {
		n += len(tu.Records)
	}
	return n
}
