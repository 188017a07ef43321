package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitdesk/orbitdesk/internal/cache/cachetest"
	"github.com/orbitdesk/orbitdesk/internal/db/models"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
)

func TestResolveFiltersByScope(t *testing.T) {
	store := &fakeRoles{roles: map[uint]*models.Role{1: mixedRole()}}
	resolver := NewRoleResolver(store, nil, time.Minute)
	ctx := context.Background()

	global, err := resolver.ResolveGlobalRole(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, global)

	for k := range global.Permissions {
		assert.True(t, rbac.InScope(k, rbac.ScopeGlobal), "%s leaked into global role", k)
	}

	assert.Equal(t, rbac.ActionWrite, global.Action(rbac.PermRoleManagement))
	assert.NotContains(t, global.Permissions, rbac.PermOrgManagement)

	org, err := resolver.ResolveOrgRole(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, org)

	for k := range org.Permissions {
		assert.True(t, rbac.InScope(k, rbac.ScopeOrganization), "%s leaked into org role", k)
	}

	assert.Equal(t, rbac.ActionDelete, org.Action(rbac.PermOrgManagement))
	assert.Equal(t, rbac.ActionNone, org.Action(rbac.PermUserManagement))
}

func TestResolveMissingRole(t *testing.T) {
	resolver := NewRoleResolver(&fakeRoles{}, nil, time.Minute)

	role, err := resolver.ResolveGlobalRole(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, role)
}

func TestResolveCachesAndInvalidates(t *testing.T) {
	c, _ := cachetest.New(t)
	store := &fakeRoles{roles: map[uint]*models.Role{1: mixedRole()}}
	resolver := NewRoleResolver(store, c, time.Minute)
	ctx := context.Background()

	first, err := resolver.ResolveGlobalRole(ctx, 1)
	require.NoError(t, err)

	second, err := resolver.ResolveGlobalRole(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.calls)

	// the org resolution is a separate entry
	_, err = resolver.ResolveOrgRole(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)

	store.roles[1].Permissions[0].Action = rbac.ActionDelete
	resolver.InvalidateRole(ctx, 1)

	third, err := resolver.ResolveGlobalRole(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, rbac.ActionDelete, third.Action(rbac.PermUserManagement))

	_, err = resolver.ResolveOrgRole(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, store.calls, "both scopes must be invalidated")
}

func TestResolveDegradesWhenCacheFails(t *testing.T) {
	c, mr := cachetest.New(t)
	store := &fakeRoles{roles: map[uint]*models.Role{1: mixedRole()}}
	resolver := NewRoleResolver(store, c, time.Minute)

	mr.SetError("ERR injected failure")

	role, err := resolver.ResolveGlobalRole(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, rbac.ActionRead, role.Action(rbac.PermUserManagement))
}
