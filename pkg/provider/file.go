package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/quiverhq/quiver/pkg/observability"
)

// FileProvider resolves the schema from a local file: SDL for .graphql/.gql
// files, a stored introspection result for .json files.
type FileProvider struct {
	path   string
	logger *observability.Logger

	mu  sync.Mutex
	doc *SchemaDocument
}

// NewFileProvider creates a provider reading from path.
func NewFileProvider(path string, logger *observability.Logger) *FileProvider {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &FileProvider{path: path, logger: logger}
}

// ResolveSchema reads and validates the schema file. The result is kept so
// repeated calls without Force skip the read.
func (p *FileProvider) ResolveSchema(_ context.Context, opts ResolveOptions) (*SchemaDocument, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.doc != nil && !opts.Force {
		return p.doc, nil
	}

	doc, err := p.load()
	if err != nil {
		return nil, err
	}
	p.doc = doc
	return doc, nil
}

func (p *FileProvider) load() (*SchemaDocument, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", p.path, err)
	}

	doc := &SchemaDocument{Hash: contentHash(data)}

	if strings.EqualFold(filepath.Ext(p.path), ".json") {
		introspection, err := unwrapIntrospection(data)
		if err != nil {
			return nil, fmt.Errorf("invalid introspection file %s: %w", p.path, err)
		}
		doc.Introspection = introspection
		return doc, nil
	}

	if _, err := gqlparser.LoadSchema(&ast.Source{Name: p.path, Input: string(data)}); err != nil {
		return nil, fmt.Errorf("invalid schema document %s: %w", p.path, err)
	}
	doc.Document = string(data)

	p.logger.Debugf("loaded schema from %s hash=%s", p.path, doc.Hash)
	return doc, nil
}

// unwrapIntrospection accepts both a bare introspection result and a full
// GraphQL response envelope ({"data": {"__schema": ...}}).
func unwrapIntrospection(data []byte) (json.RawMessage, error) {
	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Schema json.RawMessage `json:"__schema"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	if envelope.Schema != nil {
		return json.RawMessage(data), nil
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	return nil, fmt.Errorf("no __schema key present")
}

// OnSchemaChange watches the schema file and re-resolves on writes. Editors
// often replace files instead of writing in place, so the parent directory
// is watched and events are filtered by name.
func (p *FileProvider) OnSchemaChange(handler ChangeHandler) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", p.path, err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(p.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				doc, err := p.ResolveSchema(context.Background(), ResolveOptions{Force: true})
				if err != nil {
					p.logger.WithError(err).Warn("schema file changed but could not be reloaded")
					continue
				}
				handler(doc)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.logger.WithError(err).Warn("schema file watcher error")
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			watcher.Close()
		})
	}, nil
}
