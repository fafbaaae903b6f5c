package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowsplit/flowsplit/common"
)

func TestRolePermissions(t *testing.T) {
	assert := assert.New(t)

	owner := common.HexToAddress("0xc000000000000000000000000000000000000001")
	curator := common.HexToAddress("0xc000000000000000000000000000000000000002")
	manager := common.HexToAddress("0xc000000000000000000000000000000000000003")
	other := common.HexToAddress("0xc00000000000000000000000000000000000000f")

	p := AllocatorParams{Owner: owner, Curator: curator, Manager: manager}

	assert.True(p.CanCurate(owner))
	assert.True(p.CanCurate(curator))
	assert.False(p.CanCurate(manager))
	assert.False(p.CanCurate(other))

	assert.True(p.CanManageRates(owner))
	assert.True(p.CanManageRates(manager))
	assert.False(p.CanManageRates(curator))
	assert.False(p.CanManageRates(other))
}

func TestUnsetRolesNeverMatch(t *testing.T) {
	assert := assert.New(t)

	owner := common.HexToAddress("0xc000000000000000000000000000000000000001")
	p := AllocatorParams{Owner: owner}

	// Curator and manager are unset; a zero-address caller must not be
	// treated as holding them.
	assert.False(p.CanCurate(common.Address{}))
	assert.False(p.CanManageRates(common.Address{}))
	assert.True(p.CanCurate(owner))
	assert.True(p.CanManageRates(owner))
}

func TestIsParentRequiresRegisteredParent(t *testing.T) {
	assert := assert.New(t)

	parent := common.HexToAddress("0xc000000000000000000000000000000000000004")

	root := AllocatorParams{}
	assert.False(root.IsParent(common.Address{}))
	assert.False(root.IsParent(parent))

	child := AllocatorParams{Parent: parent}
	assert.True(child.IsParent(parent))
	assert.False(child.IsParent(common.Address{}))
}
