package domain

import "strings"

// RoleSet is an immutable set of platform role ids.
type RoleSet struct {
	ids map[string]struct{}
}

func NewRoleSet(ids ...string) RoleSet {
	set := RoleSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		set.ids[id] = struct{}{}
	}
	return set
}

func (s RoleSet) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// HasAny reports whether at least one of roleIDs belongs to the set.
func (s RoleSet) HasAny(roleIDs []string) bool {
	for _, id := range roleIDs {
		if s.Contains(id) {
			return true
		}
	}
	return false
}

func (s RoleSet) Len() int {
	return len(s.ids)
}
