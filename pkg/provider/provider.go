package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
)

// ErrChangeSubscription is returned by providers that cannot watch their
// schema source. The failure is deliberate and immediate rather than a
// silent no-op, so callers never wait on notifications that will not come.
var ErrChangeSubscription = errors.New("schema change subscription is not supported by this provider")

// SchemaDocument is a resolved schema: SDL text, a raw introspection result,
// or both, plus a content hash identifying the version.
type SchemaDocument struct {
	// Document is the schema in SDL form, empty when only an
	// introspection result is available.
	Document string
	// Introspection is the raw introspection result ({"__schema": ...}),
	// nil when only SDL is available.
	Introspection json.RawMessage
	// Hash identifies the schema content. Registry-assigned when the
	// schema came from the registry, content-derived otherwise.
	Hash string
}

// Payload returns the representation sent to the registry: SDL when
// available, the serialized introspection result otherwise.
func (d *SchemaDocument) Payload() string {
	if d.Document != "" {
		return d.Document
	}
	return string(d.Introspection)
}

// ResolveOptions controls a single schema resolution.
type ResolveOptions struct {
	// Tag selects a registry schema variant. Ignored by providers that do
	// not talk to the registry.
	Tag string
	// Force bypasses any cached schema.
	Force bool
}

// ChangeHandler receives the freshly resolved schema after a change.
type ChangeHandler func(*SchemaDocument)

// SchemaProvider resolves the current schema from one configured source.
type SchemaProvider interface {
	// ResolveSchema returns the current schema document.
	ResolveSchema(ctx context.Context, opts ResolveOptions) (*SchemaDocument, error)
	// OnSchemaChange registers a handler invoked when the underlying
	// schema changes and returns an unsubscribe function. Providers
	// without a change source return ErrChangeSubscription.
	OnSchemaChange(handler ChangeHandler) (func(), error)
}

// contentHash derives a stable hash for schema content that the registry
// did not assign one to.
func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
