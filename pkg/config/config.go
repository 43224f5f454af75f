package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default endpoints used when nothing else is configured.
const (
	DefaultRegistryURL = "https://registry.quiverhq.com/api/graphql"
	DefaultFrontend    = "https://app.quiverhq.com"
	DefaultTag         = "current"
)

// DefaultConfigFile is looked up in the working directory when --config is
// not passed.
const DefaultConfigFile = ".quiver.yaml"

// Config is the resolved project configuration. Exactly one of Service or
// Client describes how the current schema is obtained; which sub-fields are
// set determines the provider variant (see pkg/provider.ForConfig).
type Config struct {
	Service *ServiceConfig `yaml:"service,omitempty"`
	Client  *ClientConfig  `yaml:"client,omitempty"`

	// APIKey authenticates against the registry. Never read from the
	// config file; environment or flag only.
	APIKey string `yaml:"-"`

	RegistryURL string `yaml:"registry,omitempty"`
	Frontend    string `yaml:"frontend,omitempty"`
}

// ServiceConfig describes a service whose schema is owned by this project.
type ServiceConfig struct {
	Name            string `yaml:"name,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty"`
	LocalSchemaFile string `yaml:"localSchemaFile,omitempty"`
	DefaultTag      string `yaml:"defaultTag,omitempty"`
}

// ClientConfig describes a client project that consumes a service's schema.
// Service is either a registry reference ("orders" or "orders@staging") or,
// via ServiceRef, a pointer to a local schema file or a live endpoint.
type ClientConfig struct {
	Service    string      `yaml:"service,omitempty"`
	ServiceRef *ServiceRef `yaml:"serviceRef,omitempty"`
}

// ServiceRef points a client at a schema source that is not in the registry.
type ServiceRef struct {
	LocalSchemaFile string `yaml:"localSchemaFile,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty"`
}

// ConfigurationError reports missing or ill-typed configuration. Field names
// the configuration key that was expected.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Load reads a YAML config file and applies environment overrides. A missing
// file at the default path is not an error; an explicitly requested file
// must exist.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigurationError{Field: path, Reason: fmt.Sprintf("unparseable config file: %v", err)}
		}
	case os.IsNotExist(err) && !explicit:
		// no project config, environment and flags must carry everything
	default:
		return nil, &ConfigurationError{Field: path, Reason: err.Error()}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.APIKey = getEnv("QUIVER_API_KEY", c.APIKey)
	c.RegistryURL = getEnv("QUIVER_REGISTRY_URL", c.RegistryURL)
}

func (c *Config) applyDefaults() {
	if c.RegistryURL == "" {
		c.RegistryURL = DefaultRegistryURL
	}
	if c.Frontend == "" {
		c.Frontend = DefaultFrontend
	}
}

// Tag resolves the effective schema tag: override > config default > "current".
func (c *Config) Tag(override string) string {
	if override != "" {
		return override
	}
	if c.Service != nil && c.Service.DefaultTag != "" {
		return c.Service.DefaultTag
	}
	return DefaultTag
}

// ServiceID resolves the registry service identity from the configuration
// shape, plus any tag embedded in a client-style service reference. A
// client-shaped config requires a string service reference; a service-shaped
// config requires a name.
func (c *Config) ServiceID() (id, embeddedTag string, err error) {
	switch {
	case c.Client != nil:
		if c.Client.Service == "" {
			return "", "", &ConfigurationError{
				Field:  "client.service",
				Reason: "expected a string service reference such as \"orders\" or \"orders@staging\"",
			}
		}
		id, embeddedTag = ParseServiceRef(c.Client.Service)
		return id, embeddedTag, nil
	case c.Service != nil:
		if c.Service.Name == "" {
			return "", "", &ConfigurationError{
				Field:  "service.name",
				Reason: "expected the registry service name",
			}
		}
		return c.Service.Name, "", nil
	default:
		return "", "", &ConfigurationError{
			Field:  "service",
			Reason: "no service or client configuration present; this project is not linked to a registry service",
		}
	}
}

// ParseServiceRef splits a "name@tag" service reference. The tag part is
// empty when the reference does not embed one.
func ParseServiceRef(ref string) (name, tag string) {
	if i := strings.IndexByte(ref, '@'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return ref, ""
}

// getEnv retrieves an environment variable with a fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
