package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrorDump flattens an error chain into loggable fields, including the
// driver specific details of Postgres (pgx or lib/pq) and SQLite failures.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`
	Entity     string `json:"entity,omitempty"`
	EntityID   any    `json:"entity_id,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`

	SQLiteCode       string `json:"sqlite_code,omitempty"`
	SQLiteConstraint string `json:"sqlite_constraint,omitempty"`
}

// sqliteConstraintPrefixes are the message heads SQLite uses for constraint
// failures, e.g. "UNIQUE constraint failed: bills.room_id".
var sqliteConstraintPrefixes = []string{
	"UNIQUE constraint failed: ",
	"CHECK constraint failed: ",
	"FOREIGN KEY constraint failed",
	"NOT NULL constraint failed: ",
}

// Dump never returns an error of its own; unknown chains just carry messages.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
		if details, ok := te.Details().(map[string]any); ok {
			if entity, ok := details["entity"].(string); ok {
				d.Entity = entity
				d.EntityID = details["id"]
			}
		}
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.PGCode = pgxErr.Code
		d.PGConstraint = pgxErr.ConstraintName
		d.PGTable = pgxErr.TableName
		d.PGColumn = pgxErr.ColumnName
		d.PGDetail = pgxErr.Detail
		d.PGMessage = pgxErr.Message
		return d
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.PGCode = string(pqErr.Code)
		d.PGConstraint = pqErr.Constraint
		d.PGTable = pqErr.Table
		d.PGColumn = pqErr.Column
		d.PGDetail = pqErr.Detail
		d.PGMessage = pqErr.Message
		return d
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		d.SQLiteCode = liteErr.ExtendedCode.Error()
		d.SQLiteConstraint = sqliteConstraint(liteErr.Error())
	}

	return d
}

func sqliteConstraint(msg string) string {
	for _, prefix := range sqliteConstraintPrefixes {
		if idx := strings.Index(msg, prefix); idx >= 0 {
			if rest := strings.TrimSpace(msg[idx+len(prefix):]); rest != "" {
				return rest
			}
			return strings.TrimSpace(prefix)
		}
	}
	return ""
}
