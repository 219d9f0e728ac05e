// Package loader decodes record dumps written by the upstream record parser.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/opt-report/pkg/compression"
	"github.com/opt-report/pkg/model"
)

// Decoder turns one serialized dump into the record model.
type Decoder interface {
	// Decode reads a whole dump from r.
	Decode(ctx context.Context, r io.Reader) (*model.Dump, error)

	// Extensions returns the file suffixes handled by this decoder, without
	// any compression suffix.
	Extensions() []string

	// Name returns the name of this decoder.
	Name() string
}

// JSONDecoder decodes JSON dumps.
type JSONDecoder struct{}

// Decode implements Decoder.
func (JSONDecoder) Decode(_ context.Context, r io.Reader) (*model.Dump, error) {
	var dump model.Dump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return nil, err
	}
	return &dump, nil
}

// Extensions implements Decoder.
func (JSONDecoder) Extensions() []string { return []string{".json"} }

// Name implements Decoder.
func (JSONDecoder) Name() string { return "json" }

// YAMLDecoder decodes YAML dumps.
type YAMLDecoder struct{}

// Decode implements Decoder.
func (YAMLDecoder) Decode(_ context.Context, r io.Reader) (*model.Dump, error) {
	var dump model.Dump
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&dump); err != nil {
		if err == io.EOF {
			return &model.Dump{}, nil
		}
		return nil, err
	}
	return &dump, nil
}

// Extensions implements Decoder.
func (YAMLDecoder) Extensions() []string { return []string{".yaml", ".yml"} }

// Name implements Decoder.
func (YAMLDecoder) Name() string { return "yaml" }

// MsgpackDecoder decodes msgpack dumps. Field names follow the JSON schema.
type MsgpackDecoder struct{}

// Decode implements Decoder.
func (MsgpackDecoder) Decode(_ context.Context, r io.Reader) (*model.Dump, error) {
	var dump model.Dump
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&dump); err != nil {
		return nil, err
	}
	return &dump, nil
}

// Extensions implements Decoder.
func (MsgpackDecoder) Extensions() []string { return []string{".msgpack", ".mp"} }

// Name implements Decoder.
func (MsgpackDecoder) Name() string { return "msgpack" }

// EncodeMsgpack serializes a dump in the layout MsgpackDecoder reads.
func EncodeMsgpack(dump *model.Dump) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(dump); err != nil {
		return nil, fmt.Errorf("failed to encode msgpack dump: %w", err)
	}
	return buf.Bytes(), nil
}

// Registry maps file suffixes to decoders.
type Registry struct {
	decoders map[string]Decoder
	byExt    map[string]Decoder
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		decoders: make(map[string]Decoder),
		byExt:    make(map[string]Decoder),
	}
}

// DefaultRegistry returns a registry with the JSON, YAML and msgpack decoders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(JSONDecoder{})
	r.Register(YAMLDecoder{})
	r.Register(MsgpackDecoder{})
	return r
}

// Register registers a decoder under its name and extensions.
func (r *Registry) Register(d Decoder) {
	r.decoders[d.Name()] = d
	for _, ext := range d.Extensions() {
		r.byExt[strings.ToLower(ext)] = d
	}
}

// Get returns the decoder with the given name.
func (r *Registry) Get(name string) (Decoder, bool) {
	d, ok := r.decoders[name]
	return d, ok
}

// ForFile picks a decoder from the file name, ignoring a compression suffix.
func (r *Registry) ForFile(name string) (Decoder, bool) {
	ext := strings.ToLower(filepath.Ext(compression.TrimExtension(name)))
	d, ok := r.byExt[ext]
	return d, ok
}

// Extensions returns every registered suffix.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}
