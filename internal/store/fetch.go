package store

import (
	"context"
	"database/sql"

	"smeta/internal/model"

	"golang.org/x/sync/errgroup"
)

const (
	queryChapters  = `SELECT id, name, excel_row FROM chapters`
	queryWorks     = `SELECT id, chapter_id, code, description, quantity FROM works`
	queryResources = `SELECT id, work_id, type, code, description, quantity FROM resources`
)

// Fetch reads the three estimate tables. The reads run concurrently; the result is
// returned only when all three succeeded, in the order the database yields rows.
func (c *Conn) Fetch(ctx context.Context) (model.Records, error) {
	var rec model.Records
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := fetchChapters(gctx, c.db)
		if err != nil {
			return &QueryError{Table: "chapters", Err: err}
		}
		rec.Chapters = out
		return nil
	})
	g.Go(func() error {
		out, err := fetchWorks(gctx, c.db)
		if err != nil {
			return &QueryError{Table: "works", Err: err}
		}
		rec.Works = out
		return nil
	})
	g.Go(func() error {
		out, err := fetchResources(gctx, c.db)
		if err != nil {
			return &QueryError{Table: "resources", Err: err}
		}
		rec.Resources = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.Records{}, err
	}
	return rec, nil
}

func fetchChapters(ctx context.Context, db *sql.DB) ([]model.Chapter, error) {
	rows, err := db.QueryContext(ctx, queryChapters)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Chapter{}
	for rows.Next() {
		var (
			c        model.Chapter
			name     sql.NullString
			excelRow sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &name, &excelRow); err != nil {
			return nil, err
		}
		c.Name = name.String
		if excelRow.Valid {
			v := excelRow.Int64
			c.ExcelRow = &v
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func fetchWorks(ctx context.Context, db *sql.DB) ([]model.Work, error) {
	rows, err := db.QueryContext(ctx, queryWorks)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Work{}
	for rows.Next() {
		var (
			w                 model.Work
			code, description sql.NullString
			quantity          sql.NullFloat64
		)
		if err := rows.Scan(&w.ID, &w.ChapterID, &code, &description, &quantity); err != nil {
			return nil, err
		}
		w.Code = code.String
		w.Description = description.String
		w.Quantity = quantity.Float64
		out = append(out, w)
	}
	return out, rows.Err()
}

func fetchResources(ctx context.Context, db *sql.DB) ([]model.Resource, error) {
	rows, err := db.QueryContext(ctx, queryResources)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Resource{}
	for rows.Next() {
		var (
			r                      model.Resource
			typ, code, description sql.NullString
			quantity               sql.NullFloat64
		)
		if err := rows.Scan(&r.ID, &r.WorkID, &typ, &code, &description, &quantity); err != nil {
			return nil, err
		}
		r.Type = typ.String
		r.Code = code.String
		r.Description = description.String
		r.Quantity = quantity.Float64
		out = append(out, r)
	}
	return out, rows.Err()
}
