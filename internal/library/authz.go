package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumenlearn/objecthub/internal/apperr"
	"github.com/lumenlearn/objecthub/internal/domain"
	"github.com/lumenlearn/objecthub/internal/query"
	"github.com/lumenlearn/objecthub/internal/storage"
)

// applyVisibility decorates a predicate with the requester's visibility
// restrictions before the stores run it.
//
// Coarse pass: a requester without unpublished access only sees working
// copies already in the released state; released snapshots always pass
// (they are released by definition, the restriction targets the working
// set only).
//
// Fine pass (field mode only): collection-scoped curators and reviewers
// get OR-branches restricting results to their granted collections plus
// anything they own. Admins and editors bypass the restriction.
func applyVisibility(p *query.Predicate, requester domain.Requester) {
	if !requester.HasUnpublishedAccess() {
		p.WorkingStatuses = []domain.Status{domain.StatusReleased}
	}

	if p.Mode != query.ModeField || requester.IsAdminOrEditor() {
		return
	}

	if collections := requester.AccessibleCollections(); len(collections) > 0 {
		p.Scope = &query.CollectionScope{
			Collections: collections,
			OwnerID:     requester.ID,
			OwnerName:   requester.Username,
		}
	}
}

// canSeeWorking decides whether a requester may view a working copy that
// is not publicly released: its author, a global privileged role, or a
// curator/reviewer scoped to the record's collection.
func canSeeWorking(requester domain.Requester, w domain.WorkingRecord) bool {
	if w.Status == domain.StatusReleased {
		return true
	}
	if requester.IsAdminOrEditor() || requester.Owns(w.Author) {
		return true
	}
	return requester.HasCollectionGrant(w.Collection)
}

// authorizeMutation is the two-step single-record contract: privileged
// roles always pass; otherwise the requester must own the record or hold
// a collection-scoped grant matching its collection tag, checked against
// a lightweight projection rather than the full record.
func authorizeMutation(ctx context.Context, records storage.RecordStore, requester domain.Requester, key string) (*storage.WorkingMeta, error) {
	if requester.IsAnonymous() {
		return nil, apperr.NewForbidden("authentication required")
	}

	meta, err := records.GetWorkingMeta(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NewNotFound("learning object", key)
		}
		return nil, fmt.Errorf("failed to load record projection: %w", err)
	}

	if requester.IsAdminOrEditor() {
		return meta, nil
	}
	if requester.ID == meta.AuthorID || (requester.Username != "" && requester.Username == meta.AuthorUsername) {
		return meta, nil
	}
	if requester.HasCollectionGrant(meta.Collection) {
		return meta, nil
	}

	return nil, apperr.NewForbidden("requester may not modify this learning object")
}
