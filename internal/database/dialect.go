package database

// Dialect is the part of the run log that differs between the embedded
// SQLite file and a shared PostgreSQL server: how generation runs are
// inserted, how their ids come back, and how a repeated (batch, seed)
// pair is recognized.
type Dialect interface {
	// DriverName is the database/sql driver registered for this dialect.
	DriverName() string

	// Placeholder returns the bind parameter for the 1-based position in
	// a run log query.
	Placeholder(position int) string

	// SupportsLastInsertID reports whether RecordRun can read the new run
	// id from sql.Result. When false the insert must carry ReturningClause.
	SupportsLastInsertID() bool

	// ReturningClause is appended to the run insert when ids cannot be
	// read from sql.Result. It starts with a space.
	ReturningClause(column string) string

	// InitStatements run once per connection pool before the schema
	// migration.
	InitStatements() []string

	// IsDuplicateKeyError reports whether err means the (batch, seed) run
	// is already recorded.
	IsDuplicateKeyError(err error) bool

	// AutoIncrementPrimaryKey is the column definition of generation_runs.id.
	AutoIncrementPrimaryKey() string
}

// DialectType names a run log backend. It matches Config.Driver.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect returns the dialect for t. Anything other than postgres is
// treated as the embedded SQLite run log.
func NewDialect(t DialectType) Dialect {
	if t == DialectPostgres {
		return &PostgresDialect{}
	}
	return &SQLiteDialect{}
}
