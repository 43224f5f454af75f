package provider

import (
	"github.com/quiverhq/quiver/pkg/config"
	"github.com/quiverhq/quiver/pkg/observability"
)

// ForConfig picks the provider variant matching the configuration shape.
//
// The decision is an explicit match over the two config arms so the table
// stays auditable:
//
//	service-shaped: localSchemaFile > endpoint > name
//	client-shaped:  service reference > serviceRef.localSchemaFile > serviceRef.endpoint
//
// Anything else is a configuration error describing what is likely missing.
func ForConfig(cfg *config.Config, logger *observability.Logger) (SchemaProvider, error) {
	switch {
	case cfg.Service != nil:
		svc := cfg.Service
		switch {
		case svc.LocalSchemaFile != "":
			return NewFileProvider(svc.LocalSchemaFile, logger), nil
		case svc.Endpoint != "":
			return NewIntrospectionProvider(svc.Endpoint, logger), nil
		case svc.Name != "":
			return NewEngineProvider(cfg, logger), nil
		}
	case cfg.Client != nil:
		client := cfg.Client
		switch {
		case client.Service != "":
			return NewEngineProvider(cfg, logger), nil
		case client.ServiceRef != nil && client.ServiceRef.LocalSchemaFile != "":
			return NewFileProvider(client.ServiceRef.LocalSchemaFile, logger), nil
		case client.ServiceRef != nil && client.ServiceRef.Endpoint != "":
			return NewIntrospectionProvider(client.ServiceRef.Endpoint, logger), nil
		}
	}

	return nil, &config.ConfigurationError{
		Field: "service",
		Reason: "no schema source configured; set an API key and service name for the registry, " +
			"--endpoint for live introspection, or --localSchemaFile for a local document",
	}
}
