// Package report assembles the documents of an optimization report.
package report

import (
	"context"
	"time"

	"github.com/opt-report/internal/highlight"
	"github.com/opt-report/internal/message"
	"github.com/opt-report/internal/xref"
	"github.com/opt-report/pkg/model"
	"github.com/opt-report/pkg/utils"
	"github.com/opt-report/pkg/writer"
)

// Input is the normalised, ranked record set shared by every assembler.
// Assemblers only read it.
type Input struct {
	RunID        string
	OutputDir    string
	CreatedAt    time.Time
	Units        []*model.TranslationUnit
	Ranked       []*model.Record
	HighestCount float64
	Purged       int
	Filtered     int
	PassCounts   []model.PassCount

	// Produced lists the documents rendered by earlier assemblers of the
	// same run. The Generator keeps it current.
	Produced []string
}

// Assembler renders one kind of report document.
type Assembler interface {
	// Name identifies the assembler in logs and configuration.
	Name() string

	// Assemble renders documents from the input. It must not write files.
	Assemble(ctx context.Context, in *Input) ([]writer.Document, error)
}

// SourceBrowser links pass implementations to a browsable source tree.
type SourceBrowser struct {
	Prefix    string
	URLFormat string // %s path below Prefix, %d line
}

// DefaultSourceBrowser points at the GCC mirror on GitHub.
func DefaultSourceBrowser() SourceBrowser {
	return SourceBrowser{
		Prefix:    "../../src/",
		URLFormat: "https://github.com/gcc-mirror/gcc/tree/master/%s#L%d",
	}
}

// Env holds the collaborators shared by the assemblers.
type Env struct {
	Resolver          *xref.Resolver
	Flattener         *message.Flattener
	Classifier        model.Classifier
	Highlighter       highlight.Highlighter // nil renders plain text
	Sources           SourceReader
	SourceBrowser     SourceBrowser
	CollapseThreshold int
	Jobs              int
	Logger            utils.Logger
}

// DefaultCollapseThreshold is the number of message lines shown before a
// message block becomes collapsible.
const DefaultCollapseThreshold = 7

// NewEnv creates an Env with defaults for everything but the source reader.
func NewEnv(sources SourceReader) *Env {
	resolver := xref.NewResolver(xref.DefaultPolicy())
	return &Env{
		Resolver:          resolver,
		Flattener:         message.NewFlattener(resolver),
		Classifier:        model.KindClassifier{},
		Sources:           sources,
		SourceBrowser:     DefaultSourceBrowser(),
		CollapseThreshold: DefaultCollapseThreshold,
		Jobs:              1,
		Logger:            &utils.NullLogger{},
	}
}

// WithResolver replaces the resolver and the flattener that links through it.
func (e *Env) WithResolver(r *xref.Resolver) *Env {
	e.Resolver = r
	e.Flattener = message.NewFlattener(r)
	return e
}

// Registry holds assemblers in registration order.
type Registry struct {
	assemblers []Assembler
	byName     map[string]Assembler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Assembler)}
}

// DefaultRegistry registers the index, source, outline and style
// assemblers, and the run summary when summary is true.
func DefaultRegistry(env *Env, summary bool) *Registry {
	r := NewRegistry()
	r.Register(NewIndexAssembler(env))
	r.Register(NewSourceAssembler(env))
	r.Register(NewOutlineAssembler())
	r.Register(NewStyleAssembler(env))
	if summary {
		r.Register(NewSummaryAssembler())
	}
	return r
}

// Register adds an assembler, replacing one with the same name in place.
func (r *Registry) Register(a Assembler) {
	if _, ok := r.byName[a.Name()]; ok {
		for i, existing := range r.assemblers {
			if existing.Name() == a.Name() {
				r.assemblers[i] = a
			}
		}
	} else {
		r.assemblers = append(r.assemblers, a)
	}
	r.byName[a.Name()] = a
}

// Get returns the assembler with the given name.
func (r *Registry) Get(name string) (Assembler, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// Assemblers returns the assemblers in registration order.
func (r *Registry) Assemblers() []Assembler {
	out := make([]Assembler, len(r.assemblers))
	copy(out, r.assemblers)
	return out
}

// Names returns the assembler names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.assemblers))
	for _, a := range r.assemblers {
		names = append(names, a.Name())
	}
	return names
}
