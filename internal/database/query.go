package database

import (
	"strings"
)

// QueryBuilder lets the run log queries be written once with "?" binds
// and run against either dialect.
type QueryBuilder struct {
	dialect Dialect
}

func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build rewrites each "?" into the dialect's placeholder, numbering them
// left to right:
//
//	"SELECT seed FROM generation_runs WHERE batch = ? AND success = ?"
//	postgres: "... WHERE batch = $1 AND success = $2"
//
// Queries for dialects that bind with "?" come back untouched. Run log
// queries never contain a literal '?'.
func (qb *QueryBuilder) Build(query string) string {
	if qb.dialect.Placeholder(1) == "?" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for {
		i := strings.IndexByte(query, '?')
		if i < 0 {
			b.WriteString(query)
			return b.String()
		}
		n++
		b.WriteString(query[:i])
		b.WriteString(qb.dialect.Placeholder(n))
		query = query[i+1:]
	}
}

// BuildWithReturning is Build for the run insert: when the dialect cannot
// report the new id through sql.Result it appends "RETURNING column".
func (qb *QueryBuilder) BuildWithReturning(query string, column string) string {
	q := qb.Build(query)
	if !qb.dialect.SupportsLastInsertID() {
		q += qb.dialect.ReturningClause(column)
	}
	return q
}
