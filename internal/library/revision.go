package library

import (
	"fmt"

	"github.com/lumenlearn/objecthub/internal/domain"
)

// discloseRevision attaches the revision pointer to a combined entry when
// the requester is entitled to learn that a newer, unreleased edit
// exists. Otherwise the summary exposes nothing at all: silent omission,
// never an error, so an unauthorized caller cannot probe for pending
// revisions.
//
//	unreleased                 -> only the author
//	waiting, review, proofing  -> admin, editor, or a curator/reviewer
//	                              scoped to the record's collection
func discloseRevision(requester domain.Requester, c *combined) {
	if !c.summary.HasRevision || c.working == nil {
		return
	}

	disclosed := false
	switch {
	case c.working.Status == domain.StatusUnreleased:
		disclosed = requester.Owns(c.working.Author)
	case c.working.Status.InReview():
		disclosed = requester.IsAdminOrEditor() ||
			requester.HasCollectionGrant(c.working.Collection)
	}

	if disclosed {
		c.summary.RevisionURI = revisionURI(c.summary.Cuid)
	}
}

func revisionURI(cuid string) string {
	return fmt.Sprintf("/learning-objects/%s/revision", cuid)
}
