// Package sauces holds the checks that run before a sauce is read or
// mutated: identifier format, ownership and vote identity.
package sauces

import (
	"github.com/rohits-web03/piiquante/internal/apperr"
)

// Decision is the outcome of an ownership check.
type Decision int

const (
	Forbidden Decision = iota
	Authorized
)

func (d Decision) String() string {
	if d == Authorized {
		return "authorized"
	}
	return "forbidden"
}

// AuthorizeMutation allows update and delete only for the sauce's owner.
// Reads and votes are not owner-restricted and never call this.
func AuthorizeMutation(ownerID, requesterID string) Decision {
	if ownerID != "" && ownerID == requesterID {
		return Authorized
	}
	return Forbidden
}

// RequireOwner is AuthorizeMutation as an error.
func RequireOwner(ownerID, requesterID string) error {
	if AuthorizeMutation(ownerID, requesterID) != Authorized {
		return apperr.New(apperr.Forbidden, "Only the owner of this sauce can modify it")
	}
	return nil
}

// CheckVoterIdentity rejects a vote whose body claims a different user than
// the authenticated session.
func CheckVoterIdentity(claimedID, authenticatedID string) error {
	if claimedID == "" || claimedID != authenticatedID {
		return apperr.New(apperr.IdentitySpoofing, "The user in the request does not match the authenticated user")
	}
	return nil
}
