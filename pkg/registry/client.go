package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/quiverhq/quiver/pkg/config"
	"github.com/quiverhq/quiver/pkg/observability"
)

const schemaByTagQuery = `query SchemaByTag($id: ID!, $tag: String!) {
  service(id: $id) {
    schema(tag: $tag) {
      hash
      document
    }
  }
}`

const checkSchemaMutation = `mutation CheckSchema($id: ID!, $schema: String!, $tag: String!, $gitContext: GitContextInput, $frontend: String, $historicParameters: HistoricQueryParametersInput) {
  service(id: $id) {
    checkSchema(proposedSchema: $schema, tag: $tag, gitContext: $gitContext, frontend: $frontend, historicParameters: $historicParameters) {
      targetUrl
      diffToPrevious {
        type
        changes {
          type
          code
          description
        }
        validationConfig {
          from
          to
          queryCountThreshold
          queryCountThresholdPercentage
        }
      }
    }
  }
}`

const publishSchemaMutation = `mutation PublishSchema($id: ID!, $schema: String!, $tag: String!, $gitContext: GitContextInput) {
  service(id: $id) {
    uploadSchema(schema: $schema, tag: $tag, gitContext: $gitContext) {
      tag
      hash
    }
  }
}`

// Client talks GraphQL-over-HTTP to the schema registry. All calls are
// synchronous, unretried, and fatal on failure.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	logger   *observability.Logger
}

// NewClient builds a registry client. An API key is mandatory: its absence
// is a configuration error, never silently treated as "no remote".
func NewClient(endpoint, apiKey string, logger *observability.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, &config.ConfigurationError{
			Field:  "apiKey",
			Reason: "no registry API key found; set QUIVER_API_KEY or pass --key",
		}
	}
	if endpoint == "" {
		endpoint = config.DefaultRegistryURL
	}
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}, nil
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// do executes a single GraphQL operation and decodes data into out.
func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode registry request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build registry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	requestID := uuid.New().String()
	req.Header.Set("X-Request-Id", requestID)

	c.logger.WithField("request_id", requestID).Debugf("POST %s", c.endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{URL: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &TransportError{URL: c.endpoint, Status: resp.StatusCode}
	}

	var gqlResp graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return &TransportError{URL: c.endpoint, Err: fmt.Errorf("invalid response body: %w", err)}
	}

	if len(gqlResp.Errors) > 0 {
		messages := make([]string, len(gqlResp.Errors))
		for i, e := range gqlResp.Errors {
			messages[i] = e.Message
		}
		return &TransportError{URL: c.endpoint, Messages: messages}
	}

	if out != nil {
		if err := json.Unmarshal(gqlResp.Data, out); err != nil {
			return &TransportError{URL: c.endpoint, Err: fmt.Errorf("unexpected response shape: %w", err)}
		}
	}
	return nil
}

// SchemaByTag fetches the schema document published for (serviceID, tag).
func (c *Client) SchemaByTag(ctx context.Context, serviceID, tag string) (*SchemaTagResult, error) {
	var data struct {
		Service *struct {
			Schema *SchemaTagResult `json:"schema"`
		} `json:"service"`
	}

	err := c.do(ctx, schemaByTagQuery, map[string]any{"id": serviceID, "tag": tag}, &data)
	if err != nil {
		return nil, err
	}
	if data.Service == nil || data.Service.Schema == nil {
		return nil, &NotFoundError{Service: serviceID, Tag: tag}
	}

	c.logger.Debugf("resolved schema %s@%s hash=%s", serviceID, tag, data.Service.Schema.Hash)
	return data.Service.Schema, nil
}

// CheckSchema submits a proposed schema for validation against recorded
// client usage and returns the resulting diff.
func (c *Client) CheckSchema(ctx context.Context, input CheckSchemaInput) (*CheckSchemaResult, error) {
	variables := map[string]any{
		"id":     input.ServiceID,
		"schema": input.Schema,
		"tag":    input.Tag,
	}
	if input.GitContext != nil {
		variables["gitContext"] = input.GitContext
	}
	if input.Frontend != "" {
		variables["frontend"] = input.Frontend
	}
	if input.HistoricParameters != nil {
		variables["historicParameters"] = input.HistoricParameters
	}

	var data struct {
		Service *struct {
			CheckSchema *CheckSchemaResult `json:"checkSchema"`
		} `json:"service"`
	}

	if err := c.do(ctx, checkSchemaMutation, variables, &data); err != nil {
		return nil, err
	}
	if data.Service == nil || data.Service.CheckSchema == nil {
		return nil, &NotFoundError{Service: input.ServiceID, Tag: input.Tag}
	}
	return data.Service.CheckSchema, nil
}

// PublishSchema uploads a schema document for (serviceID, tag).
func (c *Client) PublishSchema(ctx context.Context, serviceID, tag, schema string, gitContext *GitContext) (*PublishSchemaResult, error) {
	variables := map[string]any{
		"id":     serviceID,
		"schema": schema,
		"tag":    tag,
	}
	if gitContext != nil {
		variables["gitContext"] = gitContext
	}

	var data struct {
		Service *struct {
			UploadSchema *PublishSchemaResult `json:"uploadSchema"`
		} `json:"service"`
	}

	if err := c.do(ctx, publishSchemaMutation, variables, &data); err != nil {
		return nil, err
	}
	if data.Service == nil || data.Service.UploadSchema == nil {
		return nil, &NotFoundError{Service: serviceID, Tag: tag}
	}
	return data.Service.UploadSchema, nil
}
