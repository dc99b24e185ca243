package pg

import (
	"github.com/Masterminds/squirrel"
	"github.com/lumenlearn/objecthub/internal/domain"
	"github.com/lumenlearn/objecthub/internal/query"
)

// psql is the statement builder with PostgreSQL placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// sort fields the API accepts, mapped to columns. Anything else falls
// back to name so caller input never reaches the ORDER BY clause raw.
var sortColumns = map[string]string{
	"name":       "name",
	"length":     "length",
	"collection": "collection",
	"status":     "status",
	"date":       "updated_at",
}

// unsatisfiable is the impossible sentinel condition: a filter that
// resolved to nothing must match nothing, never everything.
var unsatisfiable = squirrel.Expr("1 = 0")

// buildConditions translates a predicate into a squirrel condition tree
// for one of the two record tables. The working-status visibility
// restriction only applies to the working set; released snapshots are
// released by definition.
func buildConditions(p query.Predicate, releasedSet bool) squirrel.Sqlizer {
	if p.Unsatisfiable {
		return unsatisfiable
	}

	and := squirrel.And{}

	if !releasedSet && len(p.WorkingStatuses) > 0 {
		and = append(and, squirrel.Eq{"status": statusStrings(p.WorkingStatuses)})
	}
	if p.ReleasedOnly {
		and = append(and, squirrel.Eq{"download_restricted": false})
	}
	if p.ExactAuthor != nil {
		and = append(and, squirrel.Eq{"author_id": *p.ExactAuthor})
	}
	if len(p.OutcomeCuids) > 0 {
		and = append(and, squirrel.Eq{"cuid": p.OutcomeCuids})
	}
	if p.Scope != nil {
		scope := squirrel.Or{}
		if len(p.Scope.Collections) > 0 {
			scope = append(scope, squirrel.Eq{"collection": p.Scope.Collections})
		}
		scope = append(scope, squirrel.Eq{"author_id": p.Scope.OwnerID})
		if p.Scope.OwnerName != "" {
			scope = append(scope, squirrel.Eq{"author_username": p.Scope.OwnerName})
		}
		and = append(and, scope)
	}

	if p.Mode == query.ModeText {
		if clause := textClause(p); clause != nil {
			and = append(and, clause)
		}
	} else {
		and = append(and, fieldClauses(p)...)
	}

	if len(and) == 0 {
		return squirrel.Expr("TRUE")
	}
	return and
}

// textClause is the disjunction of full-text relevance, literal name
// substring, and literal contributor substring, plus fuzzy author
// candidates. The pattern is regex-escaped so `~*` always sees a
// literal term.
func textClause(p query.Predicate) squirrel.Sqlizer {
	if p.Term == "" {
		return nil
	}

	pattern := p.TermPattern()
	or := squirrel.Or{
		squirrel.Expr("search_vector @@ plainto_tsquery('english', ?)", p.Term),
		squirrel.Expr("name ~* ?", pattern),
		squirrel.Expr("author_username ~* ?", pattern),
		squirrel.Expr("author_name ~* ?", pattern),
	}
	if len(p.AuthorIDs) > 0 {
		or = append(or, squirrel.Eq{"author_id": p.AuthorIDs})
	}
	return or
}

func fieldClauses(p query.Predicate) []squirrel.Sqlizer {
	var clauses []squirrel.Sqlizer
	if p.Name != "" {
		clauses = append(clauses, squirrel.Expr("name ~* ?", query.EscapeTerm(p.Name)))
	}
	if len(p.Lengths) > 0 {
		clauses = append(clauses, squirrel.Eq{"length": p.Lengths})
	}
	if len(p.Levels) > 0 {
		clauses = append(clauses, squirrel.Expr("levels && ?", p.Levels))
	}
	if p.Collection != "" {
		clauses = append(clauses, squirrel.Eq{"collection": p.Collection})
	}
	if len(p.AuthorIDs) > 0 {
		clauses = append(clauses, squirrel.Eq{"author_id": p.AuthorIDs})
	}
	return clauses
}

// scoreColumn selects the relevance expression: ts_rank in text mode,
// zero otherwise.
func scoreColumn(p query.Predicate) (string, []interface{}) {
	if p.Mode == query.ModeText && p.Term != "" {
		return "ts_rank(search_vector, plainto_tsquery('english', ?)) AS score", []interface{}{p.Term}
	}
	return "0.0 AS score", nil
}

func statusStrings(statuses []domain.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
