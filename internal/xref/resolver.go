// Package xref maps source locations to report documents and anchors.
//
// Every link in every document goes through one Resolver, so a location
// renders to the same URL whether it appears in the index or in a
// per-file listing.
package xref

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/opt-report/pkg/model"
)

// Mode selects how a source path becomes a document id.
type Mode string

const (
	// ModeBase uses the file's base name. Equal base names collide.
	ModeBase Mode = "base"
	// ModeFlatten keeps the directory part, joining path components with
	// the policy's replacement string.
	ModeFlatten Mode = "flatten"
)

// DefaultReplacement joins path components in ModeFlatten.
const DefaultReplacement = "|"

// Variant selects the extension handling of a document id.
type Variant int

const (
	// VariantIndex keeps the source extension ("foo.c").
	VariantIndex Variant = iota
	// VariantDocument strips it ("foo"); per-file documents add ".html".
	VariantDocument
)

// Policy configures a Resolver.
type Policy struct {
	Mode        Mode
	Replacement string
}

// DefaultPolicy is base-name mode.
func DefaultPolicy() Policy {
	return Policy{Mode: ModeBase, Replacement: DefaultReplacement}
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBase, "":
		return ModeBase, nil
	case ModeFlatten:
		return ModeFlatten, nil
	default:
		return "", fmt.Errorf("unknown separator policy %q", s)
	}
}

// Resolver derives document names, anchors and URLs. It holds no mutable
// state and is safe for concurrent use.
type Resolver struct {
	policy Policy
}

// NewResolver creates a Resolver.
func NewResolver(p Policy) *Resolver {
	if p.Mode == "" {
		p.Mode = ModeBase
	}
	if p.Replacement == "" {
		p.Replacement = DefaultReplacement
	}
	return &Resolver{policy: p}
}

// Policy returns the resolver's policy.
func (r *Resolver) Policy() Policy {
	return r.policy
}

// DocumentID returns the id of the document describing file.
func (r *Resolver) DocumentID(file string, v Variant) string {
	var id string
	switch r.policy.Mode {
	case ModeFlatten:
		clean := strings.TrimLeft(filepath.ToSlash(filepath.Clean(file)), "/")
		id = strings.ReplaceAll(clean, "/", r.policy.Replacement)
	default:
		id = path.Base(filepath.ToSlash(file))
	}
	if v == VariantDocument {
		id = strings.TrimSuffix(id, path.Ext(id))
	}
	return id
}

// DocumentFile returns the file name of the per-file document for file.
func (r *Resolver) DocumentFile(file string) string {
	return r.DocumentID(file, VariantDocument) + ".html"
}

// Anchor returns the in-document anchor of a source line.
func Anchor(line int) string {
	return fmt.Sprintf("line-%d", line)
}

// URL returns the link to a location: its document file plus line anchor.
// The result is URL-escaped but not HTML-escaped.
func (r *Resolver) URL(loc model.Location) string {
	u := url.URL{Path: r.DocumentFile(loc.File), Fragment: Anchor(loc.Line)}
	return u.String()
}

// Collisions returns, per document file, the distinct source files that
// map to it when there is more than one. The first file listed owns the
// document.
func (r *Resolver) Collisions(files []string) map[string][]string {
	owners := make(map[string][]string)
	for _, f := range files {
		doc := r.DocumentFile(f)
		dup := false
		for _, seen := range owners[doc] {
			if seen == f {
				dup = true
				break
			}
		}
		if !dup {
			owners[doc] = append(owners[doc], f)
		}
	}
	for doc, fs := range owners {
		if len(fs) < 2 {
			delete(owners, doc)
		}
	}
	return owners
}
