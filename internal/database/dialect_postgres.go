package database

import (
	"fmt"
	"strings"
)

// PostgresDialect keeps the run log on a PostgreSQL server through
// lib/pq, so several machines can sweep seeds into one batch.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

// Placeholder returns "$N".
func (d *PostgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

// SupportsLastInsertID is false: lib/pq does not implement LastInsertId,
// so RecordRun scans the id from a RETURNING clause instead.
func (d *PostgresDialect) SupportsLastInsertID() bool {
	return false
}

func (d *PostgresDialect) ReturningClause(column string) string {
	return " RETURNING " + column
}

// InitStatements hide the NOTICE lines that CREATE ... IF NOT EXISTS
// prints on every start after the first.
func (d *PostgresDialect) InitStatements() []string {
	return []string{
		"SET client_min_messages = WARNING",
	}
}

// duplicateMarkers are fragments of a unique_violation (SQLSTATE 23505)
// as lib/pq formats it.
var duplicateMarkers = []string{"duplicate key", "23505", "unique constraint"}

// IsDuplicateKeyError reports a second insert of the same (batch, seed).
func (d *PostgresDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, m := range duplicateMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func (d *PostgresDialect) AutoIncrementPrimaryKey() string {
	return "BIGSERIAL PRIMARY KEY"
}
