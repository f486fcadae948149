package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNamesAreOrdered(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)

	require.NotEmpty(t, names)
	assert.Equal(t, "0001_users.sql", names[0])
	assert.IsNonDecreasing(t, names)
}

func TestSchemaCarriesUniqueConstraints(t *testing.T) {
	content, err := migrationFiles.ReadFile("migrations/0003_deals.sql")
	require.NoError(t, err)

	sql := string(content)
	assert.Contains(t, sql, "UNIQUE (property_id, buyer_id)")
	assert.Contains(t, sql, "property_id UUID NOT NULL UNIQUE")
}
