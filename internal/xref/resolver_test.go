package xref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opt-report/pkg/model"
)

func TestDocumentID(t *testing.T) {
	base := NewResolver(DefaultPolicy())
	flat := NewResolver(Policy{Mode: ModeFlatten})

	tests := []struct {
		name    string
		r       *Resolver
		file    string
		variant Variant
		want    string
	}{
		{"base index", base, "src/foo.c", VariantIndex, "foo.c"},
		{"base document", base, "src/foo.c", VariantDocument, "foo"},
		{"base no extension", base, "src/Makefile", VariantDocument, "Makefile"},
		{"base double extension", base, "gen/foo.tab.c", VariantDocument, "foo.tab"},
		{"flatten index", flat, "src/lib/foo.c", VariantIndex, "src|lib|foo.c"},
		{"flatten document", flat, "./src/lib/../foo.c", VariantDocument, "src|foo"},
		{"flatten absolute", flat, "/usr/include/stdio.h", VariantDocument, "usr|include|stdio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.DocumentID(tt.file, tt.variant))
		})
	}
}

func TestURL(t *testing.T) {
	r := NewResolver(DefaultPolicy())

	assert.Equal(t, "foo.html#line-42", r.URL(model.Location{File: "src/foo.c", Line: 42, Column: 3}))
	assert.Equal(t, "a%20b.html#line-1", r.URL(model.Location{File: "a b.c", Line: 1}))

	flat := NewResolver(Policy{Mode: ModeFlatten, Replacement: "~"})
	assert.Equal(t, "src~foo.html#line-7", flat.URL(model.Location{File: "src/foo.c", Line: 7}))
}

func TestURL_MatchesDocumentFileAndAnchor(t *testing.T) {
	for _, p := range []Policy{DefaultPolicy(), {Mode: ModeFlatten, Replacement: "__"}} {
		r := NewResolver(p)
		for _, file := range []string{"foo.c", "dir/foo.c", "x/y/z.cc", "noext"} {
			loc := model.Location{File: file, Line: 12}
			assert.Equal(t, r.DocumentFile(file)+"#"+Anchor(12), r.URL(loc), file)
			assert.Equal(t, r.URL(loc), r.URL(loc))
		}
	}
}

func TestAnchor(t *testing.T) {
	assert.Equal(t, "line-1", Anchor(1))
	assert.Equal(t, "line-1024", Anchor(1024))
}

func TestCollisions(t *testing.T) {
	files := []string{"a/util.c", "b/util.c", "a/util.c", "main.c"}

	got := NewResolver(DefaultPolicy()).Collisions(files)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"a/util.c", "b/util.c"}, got["util.html"])

	assert.Empty(t, NewResolver(Policy{Mode: ModeFlatten}).Collisions(files))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeBase, m)

	m, err = ParseMode("flatten")
	require.NoError(t, err)
	assert.Equal(t, ModeFlatten, m)

	_, err = ParseMode("hash")
	assert.Error(t, err)
}
