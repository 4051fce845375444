package services

import (
	"strings"

	"crm/internal/domain"
)

// AuthorizeOwner allows the action only when actor created the record.
// Identities are compared as trimmed strings since ids may come from
// different representations (token claims, database rows).
func AuthorizeOwner(record domain.Owned, actor domain.Identity) error {
	owner := strings.TrimSpace(record.OwnerID())
	id := strings.TrimSpace(actor.ID)
	if owner == "" || id == "" || owner != id {
		kind, rid := record.Ref()
		return &domain.ForbiddenError{Kind: kind, ID: rid}
	}
	return nil
}
