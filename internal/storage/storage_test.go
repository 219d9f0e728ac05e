package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opt-report/pkg/config"
	apperrors "github.com/opt-report/pkg/errors"
	"github.com/opt-report/pkg/writer"
)

func TestNewStorage(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		want    interface{}
		wantErr string
	}{
		{"empty type is local", &config.StorageConfig{LocalPath: dir}, &LocalStorage{}, ""},
		{"local", &config.StorageConfig{Type: "local", LocalPath: dir}, &LocalStorage{}, ""},
		{"cos", &config.StorageConfig{Type: "cos", Bucket: "b-125", Region: "ap-guangzhou", SecretID: "id", SecretKey: "key"}, &COSStorage{}, ""},
		{"s3", &config.StorageConfig{Type: "s3", Bucket: "reports", Endpoint: "localhost:9000", SecretID: "id", SecretKey: "key"}, &S3Storage{}, ""},
		{"nil config", nil, nil, "storage config is nil"},
		{"unknown type", &config.StorageConfig{Type: "ftp"}, nil, "unsupported storage type"},
		{"local without path", &config.StorageConfig{Type: "local"}, nil, "local storage path is required"},
		{"cos without region", &config.StorageConfig{Type: "cos", Bucket: "b"}, nil, "COS region is required"},
		{"cos without credentials", &config.StorageConfig{Type: "cos", Bucket: "b", Region: "r"}, nil, "COS credentials are required"},
		{"s3 without endpoint", &config.StorageConfig{Type: "s3", Bucket: "b"}, nil, "S3 endpoint is required"},
		{"s3 without credentials", &config.StorageConfig{Type: "s3", Bucket: "b", Endpoint: "e"}, nil, "S3 credentials are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := NewStorage(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, st)
		})
	}
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	st, err := NewLocalStorage(filepath.Join(t.TempDir(), "nested"))
	require.NoError(t, err)

	require.NoError(t, st.Upload(ctx, "run/index.html", bytes.NewReader([]byte("<html>")), 6, "text/html"))
	data, err := os.ReadFile(filepath.Join(st.GetBasePath(), "run", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>", string(data))

	require.NoError(t, st.Upload(ctx, "run/index.html", bytes.NewReader([]byte("<p>")), -1, "text/html"))
	data, err = os.ReadFile(st.GetURL("run/index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>", string(data))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, st.Upload(cancelled, "late", bytes.NewReader(nil), 0, ""), context.Canceled)
}

func TestCOSStorage_GetURL(t *testing.T) {
	st, err := NewCOSStorage(&COSConfig{
		Bucket:    "my-bucket",
		Region:    "ap-guangzhou",
		SecretID:  "test-id",
		SecretKey: "test-key",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://my-bucket.cos.ap-guangzhou.myqcloud.com/opt-report/r1/index.html",
		st.GetURL("opt-report/r1/index.html"))

	_, err = NewCOSStorage(&COSConfig{Bucket: "b", Region: "r"})
	assert.ErrorContains(t, err, "credentials are required")
}

func TestS3Storage_GetURL(t *testing.T) {
	st, err := NewS3Storage(&S3Config{
		Endpoint:  "minio.local:9000",
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "reports",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://minio.local:9000/reports/r1/a.html", st.GetURL("r1/a.html"))
	assert.Equal(t, "us-east-1", st.region)

	_, err = NewS3Storage(&S3Config{Endpoint: " ", AccessKey: "a", SecretKey: "s", Bucket: "b"})
	assert.ErrorContains(t, err, "endpoint is required")
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "opt-report/r1/index.html", ObjectKey("opt-report/", "r1", "index.html"))
	assert.Equal(t, "r1/index.html", ObjectKey("", "r1", "/index.html"))
	assert.Equal(t, "index.html", ObjectKey("", "", "index.html"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/html; charset=utf-8", ContentType("sum.html"))
	assert.Equal(t, "text/css; charset=utf-8", ContentType("style.css"))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType("outline.txt"))
	assert.Equal(t, "application/json", ContentType("summary.json"))
	assert.Equal(t, "application/octet-stream", ContentType("blob"))
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	docs := []writer.Document{
		{Name: "index.html", Content: []byte("v1")},
		{Name: "style.css", Content: nil},
	}
	require.NoError(t, WriteDir(context.Background(), dir, docs))
	assert.FileExists(t, filepath.Join(dir, "style.css"))

	docs[0].Content = []byte("v2")
	require.NoError(t, WriteDir(context.Background(), dir, docs[:1]))
	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestWriteDir_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "taken")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	err := WriteDir(context.Background(), file, []writer.Document{{Name: "index.html"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsIOError(err))
}

type recordingStorage struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
	failKey string
}

func newRecordingStorage() *recordingStorage {
	return &recordingStorage{objects: map[string]string{}, types: map[string]string{}}
}

func (s *recordingStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if key == s.failKey {
		return errors.New("access denied")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = string(data)
	s.types[key] = contentType
	return nil
}

func (s *recordingStorage) GetURL(key string) string { return "mem://" + key }

func TestPublish(t *testing.T) {
	st := newRecordingStorage()
	docs := []writer.Document{
		{Name: "index.html", Content: []byte("index")},
		{Name: "a.html", Content: []byte("a")},
		{Name: "summary.json", Content: []byte("{}")},
	}

	res, err := Publish(context.Background(), st, "opt-report", "r1", docs, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"opt-report/r1/index.html", "opt-report/r1/a.html", "opt-report/r1/summary.json"}, res.Keys)
	assert.Equal(t, "mem://opt-report/r1/index.html", res.IndexURL)

	keys := make([]string, 0, len(st.objects))
	for k := range st.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"opt-report/r1/a.html", "opt-report/r1/index.html", "opt-report/r1/summary.json"}, keys)
	assert.Equal(t, "application/json", st.types["opt-report/r1/summary.json"])
}

func TestPublish_Failure(t *testing.T) {
	st := newRecordingStorage()
	st.failKey = "r1/a.html"

	res, err := Publish(context.Background(), st, "", "r1", []writer.Document{{Name: "a.html"}}, 0)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, apperrors.CodeUploadError, apperrors.GetErrorCode(err))
	assert.Contains(t, err.Error(), "access denied")
}
