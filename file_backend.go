package usermode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFilePath is the backing file used when none is configured.
const DefaultFilePath = "user_prefs.json"

// codec converts between the preference table and a document on disk.
type codec interface {
	decode(data []byte) (map[string]string, error)
	encode(table map[string]string) ([]byte, error)
}

type jsonCodec struct{}

func (jsonCodec) decode(data []byte) (map[string]string, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return stringEntries(doc), nil
}

func (jsonCodec) encode(table map[string]string) ([]byte, error) {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

type yamlCodec struct{}

func (yamlCodec) decode(data []byte) (map[string]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return stringEntries(doc), nil
}

func (yamlCodec) encode(table map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(table); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stringEntries keeps the entries of doc whose value is a string. Nulls,
// numbers and nested values are dropped. A nil doc stays nil.
func stringEntries(doc map[string]any) map[string]string {
	if doc == nil {
		return nil
	}
	table := make(map[string]string, len(doc))
	for k, v := range doc {
		if s, ok := v.(string); ok {
			table[k] = s
		}
	}
	return table
}

func codecFor(path string) codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlCodec{}
	default:
		return jsonCodec{}
	}
}

// FileBackend implements Backend with a single document on disk. Files ending
// in .yaml or .yml are YAML, anything else is JSON.
type FileBackend struct {
	path  string
	codec codec
}

// NewFileBackend returns a FileBackend for path, or DefaultFilePath if path
// is empty.
func NewFileBackend(path string) *FileBackend {
	if path == "" {
		path = DefaultFilePath
	}
	return &FileBackend{path: path, codec: codecFor(path)}
}

// Path returns the backing file path.
func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Load(_ context.Context) (map[string]string, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", b.path, ErrTableNotExist)
		}
		return nil, fmt.Errorf("reading %s: %w", b.path, err)
	}

	table, err := b.codec.decode(data)
	if err != nil {
		return nil, &FormatError{Source: b.path, Err: err}
	}
	// null, an empty document, or a bare ~ decode without error.
	if table == nil {
		return nil, &FormatError{Source: b.path}
	}

	return table, nil
}

func (b *FileBackend) Save(_ context.Context, table map[string]string) error {
	data, err := b.codec.encode(table)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", b.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", b.path, err)
	}

	if err := os.WriteFile(b.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", b.path, err)
	}

	return nil
}
