package web

import (
	"gorm.io/gorm"

	"github.com/orbitdesk/orbitdesk/internal/auth"
	"github.com/orbitdesk/orbitdesk/internal/cache"
	"github.com/orbitdesk/orbitdesk/internal/config"
	"github.com/orbitdesk/orbitdesk/internal/db/controller/organization"
	"github.com/orbitdesk/orbitdesk/internal/db/controller/role"
	"github.com/orbitdesk/orbitdesk/internal/db/controller/session"
	"github.com/orbitdesk/orbitdesk/internal/db/controller/user"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
	"github.com/orbitdesk/orbitdesk/internal/web/handler"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authn"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authz"
)

// NewDeps wires the authorization core of process kind on db and c. c may be nil, which
// disables caching. Only the auth process gets a session deleter that removes sessions;
// the others validate sessions without ever deleting them.
func NewDeps(
	kind Kind,
	cfg *config.Config,
	db *gorm.DB,
	c *cache.Cache,
	m *rbac.Manifest,
	defaultRoleID uint,
) (*handler.Deps, error) {
	if cfg == nil || db == nil || m == nil {
		return nil, handler.ErrMissingDependency
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return nil, err
	}

	roles := auth.NewRoleResolver(role.New(db), c, cfg.Cache.RoleTTL)
	sessions := auth.NewSessionValidator(session.New(db), c, cfg.Cache.SessionTTL)
	users := auth.NewUserDirectory(user.New(db), roles, c, cfg.Cache.UserTTL)

	deps := &handler.Deps{
		Cfg:           cfg,
		DB:            db,
		Manifest:      m,
		Tokens:        tokens,
		Roles:         roles,
		Sessions:      sessions,
		Users:         users,
		DefaultRoleID: defaultRoleID,
	}

	var deleter auth.SessionDeleter = auth.NoopDeleter{}
	if kind.OwnsSessions() {
		deps.Deleter = auth.NewStoreDeleter(session.New(db), c)
		deleter = deps.Deleter
	}

	deps.Authn = authn.New(authn.Config{
		Backend:    &auth.Backend{Sessions: sessions, Users: users, Deleter: deleter},
		Tokens:     tokens,
		CookieName: cfg.Auth.CookieName,
	})

	deps.OrgGate = authz.NewOrgGate(&auth.OrgDirectory{
		Orgs:  organization.New(db, m),
		Roles: roles,
	})

	return deps, nil
}
