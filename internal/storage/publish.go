package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/opt-report/pkg/errors"
	"github.com/opt-report/pkg/writer"
)

// WriteDir writes every document into dir, creating it if needed and
// overwriting existing files. Documents are written one at a time.
func WriteDir(ctx context.Context, dir string, docs []writer.Document) error {
	st, err := NewLocalStorage(dir)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeIOError, fmt.Sprintf("create output directory %s", dir), err)
	}
	for _, d := range docs {
		if err := st.Upload(ctx, d.Name, bytes.NewReader(d.Content), int64(len(d.Content)), ContentType(d.Name)); err != nil {
			if ctx.Err() != nil {
				return err
			}
			return apperrors.Wrap(apperrors.CodeIOError, fmt.Sprintf("write %s", filepath.Join(dir, d.Name)), err)
		}
	}
	return nil
}

// PublishResult describes a completed publish.
type PublishResult struct {
	Keys     []string
	IndexURL string
}

// Publish uploads documents under prefix/runID with at most jobs uploads
// in flight. Keys are returned in document order.
func Publish(ctx context.Context, st Storage, prefix, runID string, docs []writer.Document, jobs int) (*PublishResult, error) {
	if jobs < 1 {
		jobs = 1
	}

	res := &PublishResult{Keys: make([]string, len(docs))}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for i, d := range docs {
		key := ObjectKey(prefix, runID, d.Name)
		res.Keys[i] = key
		eg.Go(func() error {
			if err := st.Upload(egCtx, key, bytes.NewReader(d.Content), int64(len(d.Content)), ContentType(d.Name)); err != nil {
				return apperrors.Wrap(apperrors.CodeUploadError, fmt.Sprintf("upload %s", key), err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res.IndexURL = st.GetURL(ObjectKey(prefix, runID, "index.html"))
	return res, nil
}
