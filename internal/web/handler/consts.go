package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the path of a group's own route.
	RouterRootPath = ""

	// ErrNilDepsFatalLogMsg is used if app or a required dependency is nil.
	ErrNilDepsFatalLogMsg = "app or a required dependency is nil"

	// DefaultPageSize for pagination.
	DefaultPageSize = 25
	// MaxPageSize caps the pageSize query parameter.
	MaxPageSize = 100
)
