package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/quiverhq/quiver/pkg/config"
	"github.com/quiverhq/quiver/pkg/observability"
	"github.com/quiverhq/quiver/pkg/registry"
)

const (
	engineCacheSize = 16
	engineCacheTTL  = 5 * time.Minute
)

// registryClient is the slice of the registry API the engine provider uses.
type registryClient interface {
	SchemaByTag(ctx context.Context, serviceID, tag string) (*registry.SchemaTagResult, error)
}

// EngineProvider resolves the schema from the remote registry. The service
// identity and default tag come from the configuration shape; resolved
// schemas are cached in memory per (service, tag) until forced.
type EngineProvider struct {
	cfg    *config.Config
	logger *observability.Logger
	cache  *lru.LRU[string, *SchemaDocument]

	mu     sync.Mutex
	client registryClient
}

// NewEngineProvider creates a registry-backed provider. The registry client
// is constructed lazily on first resolution so that configuration errors
// surface at call time with full context.
func NewEngineProvider(cfg *config.Config, logger *observability.Logger) *EngineProvider {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &EngineProvider{
		cfg:    cfg,
		logger: logger,
		cache:  lru.NewLRU[string, *SchemaDocument](engineCacheSize, nil, engineCacheTTL),
	}
}

// ResolveSchema fetches the schema for the configured service at the
// resolved tag: explicit option > tag embedded in the service reference >
// config default > "current".
func (p *EngineProvider) ResolveSchema(ctx context.Context, opts ResolveOptions) (*SchemaDocument, error) {
	id, embeddedTag, err := p.cfg.ServiceID()
	if err != nil {
		return nil, err
	}

	tag := opts.Tag
	if tag == "" {
		tag = embeddedTag
	}
	tag = p.cfg.Tag(tag)

	key := id + "@" + tag
	if !opts.Force {
		if doc, ok := p.cache.Get(key); ok {
			p.logger.Debugf("schema %s served from cache", key)
			return doc, nil
		}
	}

	client, err := p.registryClient()
	if err != nil {
		return nil, err
	}

	result, err := client.SchemaByTag(ctx, id, tag)
	if err != nil {
		return nil, err
	}

	doc := &SchemaDocument{Document: result.Document, Hash: result.Hash}
	p.cache.Add(key, doc)
	return doc, nil
}

// OnSchemaChange always fails: the registry has no change feed yet. A
// deterministic error beats a subscription that never fires.
func (p *EngineProvider) OnSchemaChange(ChangeHandler) (func(), error) {
	return nil, fmt.Errorf("registry provider: %w", ErrChangeSubscription)
}

func (p *EngineProvider) registryClient() (registryClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		client, err := registry.NewClient(p.cfg.RegistryURL, p.cfg.APIKey, p.logger)
		if err != nil {
			return nil, err
		}
		p.client = client
	}
	return p.client, nil
}
