package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quiverhq/quiver/pkg/registry"
)

var sampleChanges = []registry.SchemaChange{
	{Type: registry.ChangeFailure, Code: "FIELD_REMOVED", Description: "field `Query.products` removed"},
	{Type: registry.ChangeWarning, Code: "TYPE_DEPRECATED", Description: "type `LegacyProduct` deprecated"},
	{Type: registry.ChangeNotice, Code: "FIELD_ADDED", Description: "field `Query.catalog` added"},
}

func TestChanges(t *testing.T) {
	var buf bytes.Buffer
	Changes(&buf, sampleChanges, &Options{NoColor: true})
	out := buf.String()

	assert.Contains(t, out, "Change")
	assert.Contains(t, out, "Code")
	assert.Contains(t, out, "Description")

	assert.Contains(t, out, "FAILURE")
	assert.Contains(t, out, "FIELD_REMOVED")
	assert.Contains(t, out, "field `Query.products` removed")
	assert.Contains(t, out, "TYPE_DEPRECATED")
	assert.Contains(t, out, "FIELD_ADDED")

	assert.Contains(t, out, "1 breaking, 1 warning, 1 notice change(s) found")
	assert.NotContains(t, out, "\033[", "colors disabled")
}

func TestChangesPreservesOrder(t *testing.T) {
	var buf bytes.Buffer
	Changes(&buf, sampleChanges, &Options{NoColor: true})
	out := buf.String()

	removed := bytes.Index(buf.Bytes(), []byte("FIELD_REMOVED"))
	added := bytes.Index(buf.Bytes(), []byte("FIELD_ADDED"))
	assert.Less(t, removed, added, "registry order preserved in:\n%s", out)
}

func TestNoChanges(t *testing.T) {
	var buf bytes.Buffer
	NoChanges(&buf, &Options{NoColor: true})
	assert.Equal(t, "No changes present between schemas\n", buf.String())
}
