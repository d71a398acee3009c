package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaIsEmbedded(t *testing.T) {
	require.NotEmpty(t, schema)
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS scores")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS snapshots")
	assert.Contains(t, schema, "ON DELETE CASCADE")
}

func TestNewPoolRejectsBadURL(t *testing.T) {
	_, err := NewPool(context.Background(), "postgres://%zz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse database url")
}
