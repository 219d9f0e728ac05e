package report

import (
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/opt-report/pkg/errors"
)

// SourceReader returns the text of a source file named by a record location.
type SourceReader interface {
	ReadSource(file string) ([]byte, error)
}

// DirSourceReader reads relative paths below a build directory and
// absolute paths as they are.
type DirSourceReader struct {
	BuildDir string
}

// ReadSource implements SourceReader.
func (r DirSourceReader) ReadSource(file string) ([]byte, error) {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.BuildDir, file)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, fmt.Sprintf("read source %s", path), err)
	}
	return data, nil
}

// MapSourceReader serves sources from memory.
type MapSourceReader map[string]string

// ReadSource implements SourceReader.
func (m MapSourceReader) ReadSource(file string) ([]byte, error) {
	s, ok := m[file]
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeIOError, "read source %s: no such file", file)
	}
	return []byte(s), nil
}
