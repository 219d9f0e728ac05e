// Package testutil provides record builders and file helpers for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opt-report/pkg/model"
)

// RecordBuilder assembles a model.Record fluently.
type RecordBuilder struct {
	rec *model.Record
}

// NewRecord starts a record of the given kind.
func NewRecord(kind string) *RecordBuilder {
	return &RecordBuilder{rec: &model.Record{Kind: kind}}
}

// At sets the location.
func (b *RecordBuilder) At(file string, line, column int) *RecordBuilder {
	b.rec.Location = Loc(file, line, column)
	return b
}

// Count sets the count.
func (b *RecordBuilder) Count(value float64, quality string) *RecordBuilder {
	b.rec.Count = &model.Count{Value: value, Quality: quality}
	return b
}

// Precise sets a precise count.
func (b *RecordBuilder) Precise(value float64) *RecordBuilder {
	return b.Count(value, model.QualityPrecise)
}

// Guessed sets an estimated count.
func (b *RecordBuilder) Guessed(value float64) *RecordBuilder {
	return b.Count(value, model.QualityGuessed)
}

// Pass sets the pass name.
func (b *RecordBuilder) Pass(name string) *RecordBuilder {
	b.rec.Pass = &model.Pass{Name: name}
	return b
}

// Impl sets the implementation location.
func (b *RecordBuilder) Impl(file string, line int) *RecordBuilder {
	b.rec.ImplLocation = Loc(file, line, 0)
	return b
}

// Text appends a text item.
func (b *RecordBuilder) Text(s string) *RecordBuilder {
	b.rec.Message = append(b.rec.Message, model.Text(s))
	return b
}

// Items appends message items.
func (b *RecordBuilder) Items(items ...model.MessageItem) *RecordBuilder {
	b.rec.Message = append(b.rec.Message, items...)
	return b
}

// Child appends child records.
func (b *RecordBuilder) Child(children ...*model.Record) *RecordBuilder {
	b.rec.Children = append(b.rec.Children, children...)
	return b
}

// Inlined appends an inlining frame. A nil site is allowed.
func (b *RecordBuilder) Inlined(fn string, site *model.Location) *RecordBuilder {
	b.rec.InliningChain = append(b.rec.InliningChain, model.InlineFrame{Function: fn, Site: site})
	return b
}

// Build returns the record.
func (b *RecordBuilder) Build() *model.Record {
	return b.rec
}

// Loc returns a location pointer.
func Loc(file string, line, column int) *model.Location {
	return &model.Location{File: file, Line: line, Column: column}
}

// Unit returns a translation unit.
func Unit(filename string, records ...*model.Record) *model.TranslationUnit {
	return &model.TranslationUnit{Filename: filename, Records: records}
}

// WriteFile writes content under dir, creating parent directories, and
// returns the full path.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// SampleSource is a small C file matching SampleUnits.
const SampleSource = `int sum(int *a, int n)
{
  int s = 0;
  for (int i = 0; i < n; i++)
    s += a[i];
  return s;
}
`

// SampleUnits returns one unit over "sum.c" with a vectorized loop, a
// missed optimization and an inlining note.
func SampleUnits() []*model.TranslationUnit {
	return []*model.TranslationUnit{
		Unit("sum.c",
			NewRecord("success").At("sum.c", 4, 3).Precise(1000).Pass("vect").
				Text("loop vectorized using 16 byte vectors").Build(),
			NewRecord("failure").At("sum.c", 5, 7).Precise(250).Pass("slp").
				Text("couldn't vectorize: ").Items(model.Stmt("s_1 = s_2 + _3;", Loc("sum.c", 5, 7))).Build(),
			NewRecord("note").At("sum.c", 1, 5).Pass("inline").
				Text("considering inlining ").Items(model.Symtab("sum", nil)).
				Inlined("sum", nil).Inlined("main", Loc("main.c", 9, 10)).Build(),
		),
	}
}
