package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolverkit/resolverkit/internal/compiler/errors"
	"github.com/resolverkit/resolverkit/internal/compiler/ir"
)

func TestAddressFromPath(t *testing.T) {
	address, err := AddressFromPath("resolvers/Mutation.addUser.ts")
	require.NoError(t, err)
	assert.Equal(t, ir.ResolverAddress{TypeName: "Mutation", FieldName: "addUser"}, address)

	assert.Equal(t, "Mutation.addUser", ResolverName(address))
	assert.Equal(t, "Mutation.addUser.js", ResolverFileName(address))
	assert.Equal(t, "Mutation.addUser.getUserId.js", FunctionFileName(address, "getUserId"))
}

func TestAddressFromPathInvalid(t *testing.T) {
	for _, path := range []string{"addUser.ts", "Mutation.addUser.extra.ts", "Mutation..ts", ".addUser.ts"} {
		t.Run(path, func(t *testing.T) {
			_, err := AddressFromPath(path)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidAddress(err))
		})
	}
}
