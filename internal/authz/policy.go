// Package authz computes viewer-relative capabilities for listings.
// The server is the single source of truth for these flags; clients
// consume them verbatim.
package authz

import "strings"

// Principal is the acting user context for an authorization check.
// The zero value is an anonymous principal.
type Principal struct {
	ID            uint
	Email         string
	Authenticated bool
}

// IsAdmin reports whether the principal is the configured curator
// account. The match is by email, case-insensitive. The admin gets
// blanket edit/delete rights and never participates in following.
func (p Principal) IsAdmin(adminEmail string) bool {
	return p.Authenticated && adminEmail != "" && strings.EqualFold(p.Email, adminEmail)
}

// Capabilities are the viewer-relative flags attached to every listing
type Capabilities struct {
	CanEdit     bool `json:"can_edit"`
	CanDelete   bool `json:"can_delete"`
	CanFollow   bool `json:"can_follow"`
	CanUnfollow bool `json:"can_unfollow"`
}

// Compute returns the capabilities of p against a resource owned by
// ownerID. admin must be the result of IsAdmin for p; following reports
// whether a follow relationship for (p, resource) exists.
func Compute(p Principal, ownerID uint, admin, following bool) Capabilities {
	owner := p.Authenticated && p.ID == ownerID
	return Capabilities{
		CanEdit:     admin || owner,
		CanDelete:   admin || owner,
		CanFollow:   !admin && p.Authenticated && !owner && !following,
		CanUnfollow: !admin && p.Authenticated && !owner && following,
	}
}

// CanMutate reports whether p may edit or delete a resource owned by
// ownerID. Used at the mutation boundary for update and delete.
func CanMutate(p Principal, ownerID uint, admin bool) bool {
	return admin || (p.Authenticated && p.ID == ownerID)
}
