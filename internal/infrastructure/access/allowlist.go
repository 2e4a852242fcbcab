// Package access implements the static allow-list used for privileged actions.
package access

import "guildbot/internal/ports/output"

var _ output.Authorizer = (*AllowList)(nil)

type AllowList struct {
	users map[string]struct{}
	roles map[string]struct{}
}

func NewAllowList(userIDs, roleIDs []string) *AllowList {
	a := &AllowList{
		users: make(map[string]struct{}, len(userIDs)),
		roles: make(map[string]struct{}, len(roleIDs)),
	}
	for _, id := range userIDs {
		if id != "" {
			a.users[id] = struct{}{}
		}
	}
	for _, id := range roleIDs {
		if id != "" {
			a.roles[id] = struct{}{}
		}
	}
	return a
}

// IsAdmin reports whether the user, or one of its roles, is on the list.
func (a *AllowList) IsAdmin(userID string, roleIDs []string) bool {
	if _, ok := a.users[userID]; ok {
		return true
	}
	for _, r := range roleIDs {
		if _, ok := a.roles[r]; ok {
			return true
		}
	}
	return false
}
