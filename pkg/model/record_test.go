package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation_String(t *testing.T) {
	loc := Location{File: "src/a.c", Line: 10, Column: 4}
	assert.Equal(t, "src/a.c:10:4", loc.String())
}

func TestCount_IsPrecise(t *testing.T) {
	tests := []struct {
		name    string
		count   *Count
		precise bool
	}{
		{"nil", nil, false},
		{"precise", &Count{Value: 1, Quality: QualityPrecise}, true},
		{"adjusted", &Count{Value: 1, Quality: QualityAdjusted}, true},
		{"estimated", &Count{Value: 1, Quality: QualityEstimated}, false},
		{"guessed", &Count{Value: 1, Quality: QualityGuessed}, false},
		{"empty", &Count{Value: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.precise, tt.count.IsPrecise())
		})
	}
}

func TestRecord_Walk(t *testing.T) {
	root := &Record{
		Kind: "scope",
		Children: []*Record{
			{Kind: "note", Children: []*Record{{Kind: "success"}}},
			{Kind: "failure"},
		},
	}

	var kinds []string
	var depths []int
	root.Walk(func(rec *Record, depth int) {
		kinds = append(kinds, rec.Kind)
		depths = append(depths, depth)
	})

	assert.Equal(t, []string{"scope", "note", "success", "failure"}, kinds)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
}

func TestRecord_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		rec := &Record{Count: &Count{Value: 0, Quality: QualityPrecise}}
		assert.NoError(t, rec.Validate())
	})

	t.Run("negative nested count", func(t *testing.T) {
		rec := &Record{
			Children: []*Record{{
				Location: &Location{File: "a.c", Line: 3, Column: 1},
				Count:    &Count{Value: -1, Quality: QualityGuessed},
			}},
		}
		err := rec.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "a.c:3:1")
	})

	for name, v := range map[string]float64{"nan": math.NaN(), "+inf": math.Inf(1), "-inf": math.Inf(-1)} {
		t.Run(name, func(t *testing.T) {
			rec := &Record{Count: &Count{Value: v, Quality: QualityPrecise}}
			err := rec.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not a finite number")
		})
	}
}

func TestTranslationUnit_Validate(t *testing.T) {
	tu := &TranslationUnit{Filename: "a.c", Records: []*Record{nil}}
	err := tu.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 0 is nil")
}

func TestRecord_PassName(t *testing.T) {
	assert.Equal(t, "", (&Record{}).PassName())
	assert.Equal(t, "vect", (&Record{Pass: &Pass{Name: "vect"}}).PassName())
}

func TestKindClassifier(t *testing.T) {
	c := KindClassifier{}

	assert.Equal(t, OutcomeSuccess, c.Classify(&Record{Kind: "success"}))
	assert.Equal(t, OutcomeFailure, c.Classify(&Record{Kind: "failure"}))
	assert.Equal(t, OutcomeNeutral, c.Classify(&Record{Kind: "note"}))
	assert.Equal(t, OutcomeNeutral, c.Classify(&Record{Kind: KindScope}))

	scope := &Record{
		Kind: KindScope,
		Children: []*Record{
			{Kind: "success"},
			{Kind: KindScope, Children: []*Record{{Kind: "failure"}}},
		},
	}
	assert.Equal(t, OutcomeFailure, c.Classify(scope))
}

func TestItemKind_IsReference(t *testing.T) {
	assert.False(t, ItemText.IsReference())
	assert.True(t, ItemExpr.IsReference())
	assert.True(t, ItemStmt.IsReference())
	assert.True(t, ItemSymtab.IsReference())
	assert.False(t, ItemKind("bogus").IsReference())
}

func TestCountRecords(t *testing.T) {
	units := []*TranslationUnit{
		{Filename: "a.c", Records: []*Record{{}, {}}},
		{Filename: "b.c", Records: []*Record{{Children: []*Record{{}}}}},
	}
	assert.Equal(t, 3, CountRecords(units))
}
