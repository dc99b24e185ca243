package library

import (
	"sort"

	"github.com/lumenlearn/objecthub/internal/query"
)

// SortOption is the caller-specified field sort for field-mode queries.
type SortOption struct {
	OrderBy string
	Desc    bool
}

// rank orders the combined entries: text-mode queries sort by descending
// relevance score; field-mode queries sort by the caller's field
// (ascending unless told otherwise); with neither, hit order stands.
func rank(entries []combined, mode query.Mode, s SortOption) {
	switch {
	case mode == query.ModeText:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].score > entries[j].score
		})
	case s.OrderBy != "":
		sort.SliceStable(entries, func(i, j int) bool {
			less := fieldKey(entries[i], s.OrderBy) < fieldKey(entries[j], s.OrderBy)
			if s.Desc {
				return !less
			}
			return less
		})
	}
}

func fieldKey(c combined, field string) string {
	switch field {
	case "date":
		return c.summary.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000000000")
	case "length":
		return c.summary.Length
	case "collection":
		return c.summary.Collection
	case "status":
		return string(c.summary.Status)
	default:
		return c.summary.Name
	}
}

// paginate slices one page out of the full entry set. Page numbers below
// one are coerced to one; skip = (page-1)*limit; a bare limit takes the
// head of the set; with neither, everything is returned. The caller owns
// the pre-pagination total.
func paginate(entries []combined, page, limit int) []combined {
	if limit <= 0 {
		return entries
	}
	if page < 1 {
		page = 1
	}

	skip := (page - 1) * limit
	if skip >= len(entries) {
		return nil
	}
	entries = entries[skip:]
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}
