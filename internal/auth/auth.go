// Package auth provides the access-control policy gating mutating tools.
package auth

import "strings"

// Authorizer decides whether a username may perform privileged operations.
// It is injected into the tool layer so tests can substitute policies.
type Authorizer interface {
	IsPrivileged(username string) bool
}

// AllowList is a static set of privileged usernames.
type AllowList struct {
	users map[string]struct{}
}

// NewAllowList builds an allow-list from a comma-separated username string.
// Entries are trimmed; empty entries are ignored.
func NewAllowList(csv string) *AllowList {
	users := make(map[string]struct{})
	for _, entry := range strings.Split(csv, ",") {
		if name := strings.TrimSpace(entry); name != "" {
			users[name] = struct{}{}
		}
	}
	return &AllowList{users: users}
}

// IsPrivileged reports whether username is on the allow-list.
func (a *AllowList) IsPrivileged(username string) bool {
	_, ok := a.users[username]
	return ok
}
