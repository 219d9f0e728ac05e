package loader

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opt-report/pkg/compression"
	apperrors "github.com/opt-report/pkg/errors"
	"github.com/opt-report/pkg/model"
	"github.com/opt-report/pkg/utils"
)

// DumpMarker is the infix identifying record dump files in a build tree,
// as in "foo.c.opt-record.json.gz".
const DumpMarker = ".opt-record."

// Loader reads record dumps from disk.
type Loader struct {
	registry *Registry
	logger   utils.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithRegistry replaces the default decoder registry.
func WithRegistry(r *Registry) Option {
	return func(l *Loader) {
		l.registry = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger utils.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		registry: DefaultRegistry(),
		logger:   &utils.NullLogger{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile decodes one dump file. Compressed payloads are detected by their
// magic bytes. Every unit is validated against the model invariants.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]*model.TranslationUnit, error) {
	dec, ok := l.registry.ForFile(path)
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "no decoder for %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, fmt.Sprintf("read %s", path), err)
	}

	data, ctype, err := compression.Decompress(raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDecodeError, fmt.Sprintf("decompress %s", path), err)
	}

	dump, err := dec.Decode(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDecodeError, fmt.Sprintf("decode %s as %s", path, dec.Name()), err)
	}

	for i, tu := range dump.Units {
		if tu == nil {
			return nil, apperrors.Newf(apperrors.CodeDecodeError, "%s: unit %d is null", path, i)
		}
		if err := tu.Validate(); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDecodeError, path, err)
		}
	}

	l.logger.Debug("Loaded %d units from %s (%s, compression=%s)", len(dump.Units), path, dec.Name(), ctype)
	return dump.Units, nil
}

// LoadFiles decodes the given files in order and concatenates their units.
func (l *Loader) LoadFiles(ctx context.Context, paths []string) ([]*model.TranslationUnit, error) {
	var units []*model.TranslationUnit
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tus, err := l.LoadFile(ctx, p)
		if err != nil {
			return nil, err
		}
		units = append(units, tus...)
	}
	return units, nil
}

// LoadDir discovers every dump under dir and loads them.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]*model.TranslationUnit, error) {
	paths, err := l.FindDumps(dir)
	if err != nil {
		return nil, err
	}
	l.logger.Info("Found %d record dumps under %s", len(paths), dir)
	return l.LoadFiles(ctx, paths)
}

// FindDumps walks dir for files carrying DumpMarker and a registered
// suffix, returned in lexical order.
func (l *Loader) FindDumps(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.Contains(d.Name(), DumpMarker) {
			return nil
		}
		if _, ok := l.registry.ForFile(d.Name()); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, fmt.Sprintf("walk %s", dir), err)
	}
	sort.Strings(paths)
	return paths, nil
}
