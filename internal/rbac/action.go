package rbac

// Action is the access level a role grants on a permission key.
type Action string

const (
	// ActionNone grants nothing.
	ActionNone Action = "none"
	// ActionRead allows reading the resource family.
	ActionRead Action = "read"
	// ActionWrite allows creating and updating.
	ActionWrite Action = "write"
	// ActionDelete allows everything including removal.
	ActionDelete Action = "delete"
)

// ActionLevel is the ordinal of each action in the none < read < write < delete hierarchy.
var ActionLevel = map[Action]int{ //nolint:gochecknoglobals
	ActionNone:   0,
	ActionRead:   1,
	ActionWrite:  2,
	ActionDelete: 3,
}

// Actions lists all actions in ascending order.
func Actions() []Action {
	return []Action{ActionNone, ActionRead, ActionWrite, ActionDelete}
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	_, ok := ActionLevel[a]
	return ok
}

// Satisfies reports whether holding have is enough for a check requiring need.
// Unknown actions never satisfy and are never satisfied.
func Satisfies(have, need Action) bool {
	h, ok := ActionLevel[have]
	if !ok {
		return false
	}

	n, ok := ActionLevel[need]
	if !ok {
		return false
	}

	return h >= n
}
