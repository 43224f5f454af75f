// Package vcs collects best-effort git metadata to attach to registry
// operations. Failures are swallowed by design: schema checks proceed
// without version control context rather than aborting.
package vcs
