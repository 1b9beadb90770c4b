package store

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Conn is an open estimate database.
type Conn struct {
	db     *sql.DB
	params ConnParams
}

// Connect validates p, opens the database and pings it.
// Every failure is reported as *ConnectionError.
func Connect(ctx context.Context, p ConnParams) (*Conn, error) {
	if p.DBType == "" {
		p.DBType = DBTypeSQLite
	}
	if p.Port == 0 {
		p.Port = DefaultPort(p.DBType)
	}
	target := p.Describe()
	if err := p.Validate(); err != nil {
		return nil, &ConnectionError{Target: target, Err: err}
	}

	db, err := openDB(p)
	if err != nil {
		return nil, &ConnectionError{Target: target, Err: err}
	}
	if p.DBType == DBTypeSQLite {
		// Only one connection: pragmas are per-connection and the driver serializes writes anyway.
		db.SetMaxOpenConns(1)
		pragmas := []string{
			"PRAGMA foreign_keys=ON;",
			"PRAGMA busy_timeout=5000;",
		}
		for _, pr := range pragmas {
			if _, err := db.ExecContext(ctx, pr); err != nil {
				_ = db.Close()
				return nil, &ConnectionError{Target: target, Err: err}
			}
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &ConnectionError{Target: target, Err: err}
	}
	return &Conn{db: db, params: p}, nil
}

func openDB(p ConnParams) (*sql.DB, error) {
	if p.DBType == DBTypePostgres {
		cfg, err := pgx.ParseConfig(p.dsn())
		if err != nil {
			return nil, err
		}
		return stdlib.OpenDB(*cfg), nil
	}
	return sql.Open(p.driverName(), p.dsn())
}

func (c *Conn) DB() *sql.DB { return c.db }

func (c *Conn) Params() ConnParams { return c.params }

func (c *Conn) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// rebind rewrites "?" placeholders to "$n" for postgres.
func (c *Conn) rebind(q string) string {
	if c.params.DBType != DBTypePostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
