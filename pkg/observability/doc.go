// Package observability provides structured JSON logging for the quiver CLI.
//
// Log output goes to stderr so that command output (tables, schema documents)
// remains clean on stdout. The level is controlled by QUIVER_LOG_LEVEL.
package observability
