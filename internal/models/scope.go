package models

import "github.com/google/uuid"

// LocationScope restricts queries to a set of locations. The zero value is unrestricted.
type LocationScope struct {
	Restricted  bool
	LocationIDs []uuid.UUID
}

// Unrestricted is the scope of admin principals.
func Unrestricted() LocationScope {
	return LocationScope{}
}

// RestrictedTo builds a scope limited to ids. An empty list matches nothing.
func RestrictedTo(ids []uuid.UUID) LocationScope {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return LocationScope{Restricted: true, LocationIDs: ids}
}

// Allows reports whether id is inside the scope.
func (s LocationScope) Allows(id uuid.UUID) bool {
	if !s.Restricted {
		return true
	}
	for _, l := range s.LocationIDs {
		if l == id {
			return true
		}
	}
	return false
}
