// Package library implements the dual-copy query core: it reconciles
// the mutable working set and the immutable released set into one
// deduplicated, authorized, ranked view per content identity.
package library

import (
	"log/slog"

	"github.com/lumenlearn/objecthub/internal/domain"
	"github.com/lumenlearn/objecthub/internal/storage"
)

// combined is one reconciled entry per cuid: the projected summary plus
// the pending working copy (when one exists) kept for the disclosure
// policy and score bookkeeping.
type combined struct {
	summary domain.Summary
	working *domain.WorkingRecord
	score   float64
}

// reconcile joins predicate hits from both record sets by cuid and
// produces exactly one entry per distinct cuid. When both halves exist
// the released snapshot is the public-facing projection; hasRevision is
// raised whenever the working copy has drifted out of the released
// state. Duplicate candidates for one cuid violate a producer-side
// invariant; the most recently modified one wins and the anomaly is
// reported rather than failing the query.
func reconcile(working []storage.WorkingHit, released []storage.ReleasedHit) []combined {
	workingByCuid := make(map[string]storage.WorkingHit, len(working))
	for _, h := range working {
		if prev, ok := workingByCuid[h.Record.Cuid]; ok {
			slog.Error("Duplicate working records for cuid, taking most recently modified",
				"cuid", h.Record.Cuid, "ids", []string{prev.Record.ID.String(), h.Record.ID.String()})
			if !h.Record.UpdatedAt.After(prev.Record.UpdatedAt) {
				continue
			}
		}
		workingByCuid[h.Record.Cuid] = h
	}

	releasedByCuid := make(map[string]storage.ReleasedHit, len(released))
	for _, h := range released {
		if prev, ok := releasedByCuid[h.Record.Cuid]; ok {
			slog.Error("Duplicate released records for cuid, taking most recently modified",
				"cuid", h.Record.Cuid, "ids", []string{prev.Record.ID.String(), h.Record.ID.String()})
			if !h.Record.UpdatedAt.After(prev.Record.UpdatedAt) {
				continue
			}
		}
		releasedByCuid[h.Record.Cuid] = h
	}

	// hit order is preserved: released first, then working-only cuids
	seen := make(map[string]bool, len(releasedByCuid))
	out := make([]combined, 0, len(releasedByCuid))
	for _, h := range released {
		if seen[h.Record.Cuid] {
			continue
		}
		seen[h.Record.Cuid] = true
		out = append(out, combine(workingByCuid, releasedByCuid, h.Record.Cuid))
	}
	for _, h := range working {
		if seen[h.Record.Cuid] {
			continue
		}
		seen[h.Record.Cuid] = true
		out = append(out, combine(workingByCuid, releasedByCuid, h.Record.Cuid))
	}
	return out
}

func combine(workingByCuid map[string]storage.WorkingHit, releasedByCuid map[string]storage.ReleasedHit, cuid string) combined {
	w, hasWorking := workingByCuid[cuid]
	r, hasReleased := releasedByCuid[cuid]

	if hasWorking && hasReleased {
		rec := w.Record
		c := combined{
			summary: domain.SummaryFromReleased(r.Record),
			working: &rec,
			score:   maxScore(w.Score, r.Score),
		}
		c.summary.HasRevision = rec.Status != domain.StatusReleased
		return c
	}

	if hasReleased {
		return combined{summary: domain.SummaryFromReleased(r.Record), score: r.Score}
	}

	rec := w.Record
	return combined{summary: domain.SummaryFromWorking(rec), working: &rec, score: w.Score}
}

// filterByStatus applies the caller's status filter against the final
// combined view, not against either raw record set. A released snapshot
// whose author has since started an edit still counts as released.
func filterByStatus(entries []combined, statuses []domain.Status) []combined {
	if len(statuses) == 0 {
		return entries
	}
	out := entries[:0]
	for _, e := range entries {
		for _, st := range statuses {
			if e.summary.Status == st {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func maxScore(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
