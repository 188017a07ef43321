package web

import (
	"errors"
	"fmt"

	"github.com/orbitdesk/orbitdesk/internal/web/handler"
	adminrole "github.com/orbitdesk/orbitdesk/internal/web/handler/admin/role"
	"github.com/orbitdesk/orbitdesk/internal/web/handler/admin/settings"
	adminuser "github.com/orbitdesk/orbitdesk/internal/web/handler/admin/user"
	"github.com/orbitdesk/orbitdesk/internal/web/handler/login"
	"github.com/orbitdesk/orbitdesk/internal/web/handler/logout"
	"github.com/orbitdesk/orbitdesk/internal/web/handler/org"
	"github.com/orbitdesk/orbitdesk/internal/web/handler/org/member"
	"github.com/orbitdesk/orbitdesk/internal/web/handler/profile"
)

// Kind names the server process. All kinds share the authorization core and differ in
// their routes and in who owns sessions.
type Kind string

const (
	// KindAuth serves accounts and owns sessions.
	KindAuth Kind = "auth"
	// KindAdmin serves the platform administration.
	KindAdmin Kind = "admin"
	// KindOrg serves organizations.
	KindOrg Kind = "org"
)

// ErrUnknownKind is returned for process kinds other than auth, admin and org.
var ErrUnknownKind = errors.New("unknown process kind")

// ParseKind validates s as a process kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindAuth, KindAdmin, KindOrg:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// OwnsSessions reports whether the process deletes sessions itself.
func (k Kind) OwnsSessions() bool {
	return k == KindAuth
}

func (k Kind) services() ([]handler.Service, error) {
	switch k {
	case KindAuth:
		return []handler.Service{new(login.Service), new(logout.Service), new(profile.Service)}, nil
	case KindAdmin:
		return []handler.Service{new(adminuser.Service), new(adminrole.Service), new(settings.Service), new(profile.Service)}, nil
	case KindOrg:
		return []handler.Service{new(org.Service), new(member.Service), new(profile.Service)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
	}
}
