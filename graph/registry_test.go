package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register("users", "id", 2))
	require.NoError(t, reg.Register("users", "email", 3))
	require.NoError(t, reg.Register("orders", "id", 5))
	assert.Equal(t, 3, reg.Len())

	id, err := reg.Resolve("users", "id")
	require.NoError(t, err)
	assert.Equal(t, NodeID(2), id)

	id, err = reg.Resolve("orders", "id")
	require.NoError(t, err)
	assert.Equal(t, NodeID(5), id)
}

func TestRegistryWriteOnce(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("users", "id", 2))

	err := reg.Register("users", "id", 9)
	var dupErr *DuplicateKeyError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, Key{Table: "users", Column: "id"}, dupErr.Key)

	// first registration survives
	id, err := reg.Resolve("users", "id")
	require.NoError(t, err)
	assert.Equal(t, NodeID(2), id)
}

func TestRegistryKeysDoNotConcatenate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("ab", "c", 1))
	require.NoError(t, reg.Register("a", "bc", 2))

	id, err := reg.Resolve("a", "bc")
	require.NoError(t, err)
	assert.Equal(t, NodeID(2), id)
}

func TestRegistryUnresolved(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Resolve("ghosts", "id")

	var unresolved *UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, Key{Table: "ghosts", Column: "id"}, unresolved.Key)
}
