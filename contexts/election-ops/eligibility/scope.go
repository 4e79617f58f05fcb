package eligibility

import "strings"

// Scope is the geographic breadth of a session or notification.
type Scope string

const (
	ScopeGlobal   Scope = "global"
	ScopeNational Scope = "national"
	ScopeState    Scope = "state"
	ScopeLocal    Scope = "local"
)

// Location is an actor's recorded residence.
type Location struct {
	State string
	LGA   string
}

// Matches reports whether an actor at the given location falls inside a
// scoped target. Global and national scopes match anyone. State and local
// scopes compare trimmed, case-insensitive values; a target field left empty
// falls back to matching any actor with the corresponding field set. Absent
// actor location data never matches outside global/national.
func Matches(scope Scope, targetState, targetLGA string, actor Location) bool {
	switch scope {
	case ScopeGlobal, ScopeNational, "":
		return true
	case ScopeState:
		return fieldMatches(targetState, actor.State)
	case ScopeLocal:
		return fieldMatches(targetState, actor.State) && fieldMatches(targetLGA, actor.LGA)
	default:
		return false
	}
}

func fieldMatches(target, actual string) bool {
	actual = strings.TrimSpace(actual)
	if actual == "" {
		return false
	}
	target = strings.TrimSpace(target)
	if target == "" {
		// Permissive fallback: a scoped entity without a recorded target
		// matches anyone whose own field is populated.
		return true
	}
	return strings.EqualFold(target, actual)
}
