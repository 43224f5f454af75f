package cli

import (
	"flag"

	"github.com/quiverhq/quiver/pkg/config"
)

// projectFlags are the configuration flags shared by every registry-facing
// command. Flag values override the config file and the environment.
type projectFlags struct {
	configPath      string
	service         string
	endpoint        string
	localSchemaFile string
	key             string
	registryURL     string
	frontend        string
}

func registerProjectFlags(flags *flag.FlagSet) *projectFlags {
	pf := &projectFlags{}
	flags.StringVar(&pf.configPath, "config", "", "Path to the project config file (default .quiver.yaml)")
	flags.StringVar(&pf.service, "service", "", "Registry service name, optionally name@tag")
	flags.StringVar(&pf.endpoint, "endpoint", "", "GraphQL endpoint to introspect for the current schema")
	flags.StringVar(&pf.localSchemaFile, "localSchemaFile", "", "Local schema document (.graphql SDL or introspection .json)")
	flags.StringVar(&pf.key, "key", "", "Registry API key (defaults to QUIVER_API_KEY)")
	flags.StringVar(&pf.registryURL, "registry", "", "Registry GraphQL endpoint")
	flags.StringVar(&pf.frontend, "frontend", "", "Frontend URL used in check result links")
	return pf
}

// loadConfig resolves the effective configuration: file, then environment,
// then these flags.
func (pf *projectFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(pf.configPath)
	if err != nil {
		return nil, err
	}

	if pf.key != "" {
		cfg.APIKey = pf.key
	}
	if pf.registryURL != "" {
		cfg.RegistryURL = pf.registryURL
	}
	if pf.frontend != "" {
		cfg.Frontend = pf.frontend
	}

	if pf.localSchemaFile != "" || pf.endpoint != "" {
		if cfg.Service == nil {
			cfg.Service = &config.ServiceConfig{}
		}
		if pf.localSchemaFile != "" {
			cfg.Service.LocalSchemaFile = pf.localSchemaFile
		}
		if pf.endpoint != "" {
			cfg.Service.Endpoint = pf.endpoint
		}
	}

	if pf.service != "" {
		if cfg.Service != nil {
			name, tag := config.ParseServiceRef(pf.service)
			cfg.Service.Name = name
			if tag != "" {
				cfg.Service.DefaultTag = tag
			}
		} else {
			if cfg.Client == nil {
				cfg.Client = &config.ClientConfig{}
			}
			cfg.Client.Service = pf.service
		}
	}

	return cfg, nil
}
