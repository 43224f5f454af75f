// Package config loads quiver project configuration.
//
// Configuration is resolved from three sources, later wins:
//
//  1. a YAML project file (.quiver.yaml by default)
//  2. environment variables (QUIVER_API_KEY, QUIVER_REGISTRY_URL)
//  3. command-line flags applied by pkg/cli
//
// A project is either service-shaped (it owns a schema) or client-shaped (it
// consumes one). The shape, and which of its optional fields are present,
// drives schema provider selection in pkg/provider.
package config
