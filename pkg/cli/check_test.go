package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiverhq/quiver/pkg/config"
	"github.com/quiverhq/quiver/pkg/validation"
)

const testSDL = `type Query {
  products: [String!]!
}
`

// checkRegistry fakes the registry's checkSchema operation, capturing the
// variables of the last request.
func checkRegistry(t *testing.T, changes []map[string]any, lastVars *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if lastVars != nil {
			*lastVars = req.Variables
		}

		diffType := "NOTICE"
		for _, c := range changes {
			if c["type"] == "FAILURE" {
				diffType = "FAILURE"
			}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"service": map[string]any{
					"checkSchema": map[string]any{
						"targetUrl": "https://app.quiverhq.com/service/products/check/1",
						"diffToPrevious": map[string]any{
							"type":    diffType,
							"changes": changes,
						},
					},
				},
			},
		})
	}))
}

func writeTestSchema(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "schema.graphql")
	require.NoError(t, os.WriteFile(path, []byte(testSDL), 0644))
	return path
}

func TestCheckNoChanges(t *testing.T) {
	chdir(t, t.TempDir())
	schemaPath := writeTestSchema(t, ".")

	var vars map[string]any
	server := checkRegistry(t, []map[string]any{}, &vars)
	defer server.Close()

	var out bytes.Buffer
	err := runCheck(&out, []string{
		"-localSchemaFile", schemaPath,
		"-service", "products",
		"-key", "service:products:abc123",
		"-registry", server.URL,
		"-no-color",
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "No changes present between schemas")
	assert.Equal(t, "products", vars["id"])
	assert.Equal(t, "current", vars["tag"])
	assert.Equal(t, testSDL, vars["schema"])

	params, ok := vars["historicParameters"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(-86400), params["from"])
	assert.Equal(t, float64(0), params["to"])
	assert.Equal(t, float64(1), params["queryCountThreshold"])
}

func TestCheckBreakingChanges(t *testing.T) {
	chdir(t, t.TempDir())
	schemaPath := writeTestSchema(t, ".")

	server := checkRegistry(t, []map[string]any{
		{"type": "FAILURE", "code": "FIELD_REMOVED", "description": "field `Query.products` removed"},
		{"type": "NOTICE", "code": "FIELD_ADDED", "description": "field `Query.catalog` added"},
	}, nil)
	defer server.Close()

	var out bytes.Buffer
	err := runCheck(&out, []string{
		"-localSchemaFile", schemaPath,
		"-service", "products",
		"-key", "key",
		"-registry", server.URL,
		"-no-color",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 breaking change(s) found")

	assert.Contains(t, out.String(), "FIELD_REMOVED")
	assert.Contains(t, out.String(), "FIELD_ADDED")
	assert.Contains(t, out.String(), "View full details at")
}

func TestCheckNonBreakingChangesSucceed(t *testing.T) {
	chdir(t, t.TempDir())
	schemaPath := writeTestSchema(t, ".")

	server := checkRegistry(t, []map[string]any{
		{"type": "NOTICE", "code": "FIELD_ADDED", "description": "field `Query.catalog` added"},
	}, nil)
	defer server.Close()

	var out bytes.Buffer
	err := runCheck(&out, []string{
		"-localSchemaFile", schemaPath,
		"-service", "products",
		"-key", "key",
		"-registry", server.URL,
		"-no-color",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "FIELD_ADDED")
}

func TestCheckTagFlag(t *testing.T) {
	chdir(t, t.TempDir())
	schemaPath := writeTestSchema(t, ".")

	var vars map[string]any
	server := checkRegistry(t, []map[string]any{}, &vars)
	defer server.Close()

	var out bytes.Buffer
	err := runCheck(&out, []string{
		"-localSchemaFile", schemaPath,
		"-service", "products",
		"-tag", "staging",
		"-key", "key",
		"-registry", server.URL,
		"-no-color",
	})
	require.NoError(t, err)
	assert.Equal(t, "staging", vars["tag"])
}

func TestCheckInvalidParametersFailBeforeTheRegistryCall(t *testing.T) {
	chdir(t, t.TempDir())
	schemaPath := writeTestSchema(t, ".")

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	var out bytes.Buffer
	err := runCheck(&out, []string{
		"-localSchemaFile", schemaPath,
		"-service", "products",
		"-key", "key",
		"-registry", server.URL,
		"-validationPeriod", "P0D",
	})
	require.Error(t, err)

	var vErr *validation.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.False(t, called, "registry must not be called with invalid parameters")
}

func TestCheckWithoutSchemaSource(t *testing.T) {
	chdir(t, t.TempDir())

	var out bytes.Buffer
	err := runCheck(&out, nil)
	require.Error(t, err)

	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestCheckWithoutServiceLink(t *testing.T) {
	chdir(t, t.TempDir())
	schemaPath := writeTestSchema(t, ".")

	var out bytes.Buffer
	err := runCheck(&out, []string{"-localSchemaFile", schemaPath, "-key", "key"})
	require.Error(t, err)

	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "service.name", cfgErr.Field)
}
