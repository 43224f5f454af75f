// Package provider resolves "the current schema" from one of three sources.
//
// # Variants
//
// FileProvider reads an SDL document or a stored introspection result from
// disk and validates it. IntrospectionProvider runs the standard
// introspection query against a live endpoint. EngineProvider asks the
// remote registry for the schema published under a (service, tag) pair and
// caches results in an expirable LRU.
//
// ForConfig inspects the configuration shape and picks the variant; see its
// documentation for the exact decision table.
//
// All variants implement SchemaProvider. Change notification is supported
// where the source has a change signal (file watches, endpoint polling); the
// registry variant fails deterministically because the registry exposes no
// change feed.
package provider
