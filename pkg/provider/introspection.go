package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/quiverhq/quiver/pkg/observability"
	"github.com/quiverhq/quiver/pkg/registry"
)

// introspectionQuery is the standard GraphQL introspection query.
const introspectionQuery = `query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types { ...FullType }
    directives {
      name
      description
      locations
      args { ...InputValue }
    }
  }
}
fragment FullType on __Type {
  kind
  name
  description
  fields(includeDeprecated: true) {
    name
    description
    args { ...InputValue }
    type { ...TypeRef }
    isDeprecated
    deprecationReason
  }
  inputFields { ...InputValue }
  interfaces { ...TypeRef }
  enumValues(includeDeprecated: true) {
    name
    description
    isDeprecated
    deprecationReason
  }
  possibleTypes { ...TypeRef }
}
fragment InputValue on __InputValue {
  name
  description
  type { ...TypeRef }
  defaultValue
}
fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
              }
            }
          }
        }
      }
    }
  }
}`

// defaultPollInterval paces OnSchemaChange polling against live endpoints.
const defaultPollInterval = 5 * time.Second

// IntrospectionProvider resolves the schema by introspecting a running
// GraphQL endpoint.
type IntrospectionProvider struct {
	endpoint     string
	http         *http.Client
	logger       *observability.Logger
	pollInterval time.Duration

	mu  sync.Mutex
	doc *SchemaDocument
}

// NewIntrospectionProvider creates a provider that introspects endpoint.
func NewIntrospectionProvider(endpoint string, logger *observability.Logger) *IntrospectionProvider {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &IntrospectionProvider{
		endpoint:     endpoint,
		http:         &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
		pollInterval: defaultPollInterval,
	}
}

// ResolveSchema issues the introspection query. The result is cached for the
// lifetime of the provider; Force refreshes it.
func (p *IntrospectionProvider) ResolveSchema(ctx context.Context, opts ResolveOptions) (*SchemaDocument, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.doc != nil && !opts.Force {
		return p.doc, nil
	}

	doc, err := p.introspect(ctx)
	if err != nil {
		return nil, err
	}
	p.doc = doc
	return doc, nil
}

func (p *IntrospectionProvider) introspect(ctx context.Context) (*SchemaDocument, error) {
	body, err := json.Marshal(map[string]string{"query": introspectionQuery})
	if err != nil {
		return nil, fmt.Errorf("failed to encode introspection query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build introspection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, &registry.TransportError{URL: p.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &registry.TransportError{URL: p.endpoint, Status: resp.StatusCode}
	}

	var gqlResp struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, &registry.TransportError{URL: p.endpoint, Err: fmt.Errorf("invalid introspection response: %w", err)}
	}
	if len(gqlResp.Errors) > 0 {
		messages := make([]string, len(gqlResp.Errors))
		for i, e := range gqlResp.Errors {
			messages[i] = e.Message
		}
		return nil, &registry.TransportError{URL: p.endpoint, Messages: messages}
	}
	if gqlResp.Data == nil {
		return nil, &registry.TransportError{URL: p.endpoint, Err: fmt.Errorf("introspection returned no data")}
	}

	doc := &SchemaDocument{
		Introspection: gqlResp.Data,
		Hash:          contentHash(gqlResp.Data),
	}
	p.logger.Debugf("introspected %s hash=%s", p.endpoint, doc.Hash)
	return doc, nil
}

// OnSchemaChange polls the endpoint and invokes handler whenever the schema
// hash changes. Endpoints have no push channel, so polling is the only
// change source here.
func (p *IntrospectionProvider) OnSchemaChange(handler ChangeHandler) (func(), error) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(p.pollInterval)
		defer ticker.Stop()

		var lastHash string
		p.mu.Lock()
		if p.doc != nil {
			lastHash = p.doc.Hash
		}
		p.mu.Unlock()
		for {
			select {
			case <-ticker.C:
				doc, err := p.ResolveSchema(context.Background(), ResolveOptions{Force: true})
				if err != nil {
					p.logger.WithError(err).Warn("schema poll failed")
					continue
				}
				if doc.Hash == lastHash {
					continue
				}
				lastHash = doc.Hash
				handler(doc)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}
