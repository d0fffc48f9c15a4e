package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaCmd(t *testing.T) {
	withMocks(t)

	out, err := run(t, newSchemaCmd(), "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))

	assert.Equal(t, "lustcov coverage file", schema["title"])
	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "version")
	assert.Contains(t, props, "files")
	assert.Contains(t, props, "complete")
	assert.ElementsMatch(t, []any{"version", "files"}, schema["required"])
}
