// Package registry is the client for the remote GraphQL schema registry.
//
// The registry is the service of record for published schemas and their
// usage history. This package only consumes it: it fetches schema documents
// by (service, tag), submits proposed schemas for usage-aware validation
// (checkSchema), and publishes schema documents. The diffing itself happens
// remotely; results come back as ordered SchemaChange lists.
//
// Error taxonomy:
//
//   - *TransportError: registry unreachable, non-200 status, or GraphQL errors
//   - *NotFoundError: no schema published for the requested service/tag
//   - *config.ConfigurationError: missing API key at client construction
package registry
