package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaInitCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "schema", "init")

	require.NoError(t, err)
	assert.Contains(t, out, "Records table ready.")
}

func TestSchemaAddColumnsCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "schema", "add-columns")
	require.NoError(t, err)
	assert.Contains(t, out, "Added columns: pro_russia, pro_ukraine, unsure")

	out, err = execute(t, "schema", "add-columns")
	require.NoError(t, err)
	assert.Contains(t, out, "Label columns already present.")
}

func TestSchemaAddColumnsCmd_AfterClassify(t *testing.T) {
	classified(t)

	out, err := execute(t, "schema", "add-columns")

	require.NoError(t, err)
	assert.Contains(t, out, "Label columns already present.")
}
