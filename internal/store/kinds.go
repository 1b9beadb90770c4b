package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"smeta/internal/model"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// Display-type overrides live in their own table so the three estimate tables stay untouched.
const kindTableStmt = `CREATE TABLE IF NOT EXISTS node_kinds (
	node_kind VARCHAR(16) NOT NULL,
	node_id BIGINT NOT NULL,
	display_kind VARCHAR(16) NOT NULL,
	updated_at_unixms BIGINT NOT NULL,
	PRIMARY KEY (node_kind, node_id)
)`

func (c *Conn) ensureKindTable(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, kindTableStmt)
	return err
}

// LoadDisplayKinds returns every persisted display-type override. It only reads:
// a database without the node_kinds table has no overrides.
func (c *Conn) LoadDisplayKinds(ctx context.Context) (map[model.NodeRef]model.Kind, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT node_kind, node_id, display_kind FROM node_kinds`)
	if err != nil {
		if isMissingTable(err) {
			return map[model.NodeRef]model.Kind{}, nil
		}
		return nil, &QueryError{Table: "node_kinds", Err: err}
	}
	defer rows.Close()

	out := map[model.NodeRef]model.Kind{}
	for rows.Next() {
		var nodeKind, displayKind string
		var id int64
		if err := rows.Scan(&nodeKind, &id, &displayKind); err != nil {
			return nil, &QueryError{Table: "node_kinds", Err: err}
		}
		ref := model.NodeRef{Kind: model.Kind(nodeKind), ID: id}
		dk := model.Kind(displayKind)
		if !ref.Kind.Valid() || !dk.Valid() {
			continue
		}
		out[ref] = dk
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Table: "node_kinds", Err: err}
	}
	return out, nil
}

// SaveDisplayKind persists (or clears, when kind equals the node's level) one override.
func (c *Conn) SaveDisplayKind(ctx context.Context, ref model.NodeRef, kind model.Kind) error {
	if err := c.ensureKindTable(ctx); err != nil {
		return fmt.Errorf("save display type: %w", err)
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("save display type: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Delete + insert works the same on every dialect (no upsert syntax differences).
	if _, err := tx.ExecContext(ctx, c.rebind(`DELETE FROM node_kinds WHERE node_kind = ? AND node_id = ?`), string(ref.Kind), ref.ID); err != nil {
		return fmt.Errorf("save display type: %w", err)
	}
	if kind != ref.Kind {
		if _, err := tx.ExecContext(ctx, c.rebind(`INSERT INTO node_kinds(node_kind, node_id, display_kind, updated_at_unixms) VALUES(?, ?, ?, ?)`),
			string(ref.Kind), ref.ID, string(kind), time.Now().UTC().UnixMilli()); err != nil {
			return fmt.Errorf("save display type: %w", err)
		}
	}
	return tx.Commit()
}

// isMissingTable reports an "undefined table" error from any of the supported drivers.
func isMissingTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1146
	}
	return strings.Contains(err.Error(), "no such table")
}
