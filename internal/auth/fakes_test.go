package auth

import (
	"context"
	"sync"

	"github.com/orbitdesk/orbitdesk/internal/db/models"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
)

type fakeRoles struct {
	mu    sync.Mutex
	roles map[uint]*models.Role
	calls int
}

func (f *fakeRoles) FindByID(_ context.Context, id uint) (*models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++

	return f.roles[id], nil
}

type fakeUsers struct {
	users map[uint64]*models.User
	calls int
}

func (f *fakeUsers) FindByID(_ context.Context, id uint64) (*models.User, error) {
	f.calls++

	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}

	cp := *u

	return &cp, nil
}

func row(key rbac.Key, action rbac.Action) models.RolePermission {
	scope, _ := rbac.ScopeOf(key)
	return models.RolePermission{Action: action, Permission: models.Permission{Key: key, Scope: scope}}
}

// mixedRole is a global role that also carries organization rows.
func mixedRole() *models.Role {
	return &models.Role{
		ID:    1,
		Name:  rbac.RoleAdmin,
		Scope: rbac.ScopeGlobal,
		Permissions: []models.RolePermission{
			row(rbac.PermUserManagement, rbac.ActionRead),
			row(rbac.PermRoleManagement, rbac.ActionWrite),
			row(rbac.PermOrgManagement, rbac.ActionDelete),
			row(rbac.PermMemberManagement, rbac.ActionWrite),
		},
	}
}
