// Package cli provides the quiver command-line interface for GraphQL schema
// management.
//
// # Overview
//
// The CLI validates, publishes, and downloads GraphQL schemas against a
// remote schema registry. The schema source is resolved from project
// configuration (see pkg/config and pkg/provider): a local schema document,
// a live introspection endpoint, or the registry itself.
//
// # Commands
//
// service:check (alias schema:check): validate a schema against recorded
// client usage
//
//	quiver service:check \
//		--service products \
//		--localSchemaFile ./schema.graphql \
//		--validationPeriod P1D \
//		--queryCountThreshold 5 \
//		--queryCountThresholdPercentage 10
//
// The command exits nonzero when the registry reports any breaking (FAILURE)
// change.
//
// service:push: publish the current schema
//
//	quiver service:push \
//		--service products \
//		--endpoint http://localhost:4000/graphql \
//		--tag staging
//
// schema:download: save the current schema to a file
//
//	quiver schema:download \
//		--service products@staging \
//		--out schema.graphql
//
// The registry API key comes from --key or QUIVER_API_KEY.
package cli
