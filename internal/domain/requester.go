package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Role is an editorial role carried by an access group token.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEditor   Role = "editor"
	RoleCurator  Role = "curator"
	RoleReviewer Role = "reviewer"
)

// Requester is the already-authenticated identity a request runs as.
// Access groups take the form "role" (global) or "role@collection"
// (scoped to one editorial collection). The zero value is anonymous.
type Requester struct {
	ID           uuid.UUID `json:"id,omitempty"`
	Username     string    `json:"username,omitempty"`
	AccessGroups []string  `json:"accessGroups,omitempty"`
}

// Anonymous is the requester used when no credentials were presented.
var Anonymous = Requester{}

// IsAnonymous reports whether no identity was presented.
func (r Requester) IsAnonymous() bool {
	return r.Username == "" && r.ID == uuid.Nil
}

// IsAdminOrEditor reports whether the requester holds a global
// privileged role. Admins and editors bypass collection restrictions.
func (r Requester) IsAdminOrEditor() bool {
	for _, g := range r.AccessGroups {
		if g == string(RoleAdmin) || g == string(RoleEditor) {
			return true
		}
	}
	return false
}

// HasUnpublishedAccess reports whether the requester may see working
// copies that are not yet publicly released. Any recognized editorial
// grant qualifies; the fine-grained collection check happens post-join.
func (r Requester) HasUnpublishedAccess() bool {
	if r.IsAdminOrEditor() {
		return true
	}
	return len(r.CollectionAccess()) > 0
}

// CollectionAccess derives the collection-access map from the access
// groups: collection tag -> roles the requester holds over it.
func (r Requester) CollectionAccess() map[string][]Role {
	var access map[string][]Role
	for _, g := range r.AccessGroups {
		role, collection, ok := splitAccessGroup(g)
		if !ok || collection == "" {
			continue
		}
		if role != RoleCurator && role != RoleReviewer {
			continue
		}
		if access == nil {
			access = make(map[string][]Role)
		}
		access[collection] = append(access[collection], role)
	}
	return access
}

// AccessibleCollections lists the collection tags the requester holds a
// curator or reviewer grant for, in access-group order.
func (r Requester) AccessibleCollections() []string {
	var collections []string
	seen := make(map[string]bool)
	for _, g := range r.AccessGroups {
		role, collection, ok := splitAccessGroup(g)
		if !ok || collection == "" || seen[collection] {
			continue
		}
		if role != RoleCurator && role != RoleReviewer {
			continue
		}
		seen[collection] = true
		collections = append(collections, collection)
	}
	return collections
}

// HasCollectionGrant reports whether the requester holds a curator or
// reviewer grant scoped to the given collection.
func (r Requester) HasCollectionGrant(collection string) bool {
	if collection == "" {
		return false
	}
	for _, c := range r.AccessibleCollections() {
		if c == collection {
			return true
		}
	}
	return false
}

// Owns reports whether the requester authored the record.
func (r Requester) Owns(author Author) bool {
	if r.IsAnonymous() {
		return false
	}
	if r.ID != uuid.Nil && r.ID == author.ID {
		return true
	}
	return r.Username != "" && r.Username == author.Username
}

func splitAccessGroup(g string) (Role, string, bool) {
	role, collection, found := strings.Cut(g, "@")
	switch Role(role) {
	case RoleAdmin, RoleEditor, RoleCurator, RoleReviewer:
	default:
		return "", "", false
	}
	if !found {
		return Role(role), "", true
	}
	return Role(role), collection, true
}
