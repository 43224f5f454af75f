package registry

import (
	"fmt"
	"strings"
)

// TransportError reports a registry call that could not complete: the
// endpoint was unreachable, returned a non-success status, or answered with
// GraphQL-level errors. Checks are all-or-nothing, so these are fatal.
type TransportError struct {
	URL      string
	Status   int
	Messages []string
	Err      error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("registry %s unreachable: %v", e.URL, e.Err)
	case len(e.Messages) > 0:
		return fmt.Sprintf("registry %s returned errors: %s", e.URL, strings.Join(e.Messages, "; "))
	default:
		return fmt.Sprintf("registry %s returned status %d", e.URL, e.Status)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// NotFoundError means the registry holds no schema for the given service
// and tag.
type NotFoundError struct {
	Service string
	Tag     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no schema found for service %q tag %q in the registry", e.Service, e.Tag)
}
