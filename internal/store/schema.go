package store

import (
	"context"
	"database/sql"
	"fmt"

	"smeta/internal/model"
)

// Column types are chosen to be accepted by sqlite, mysql and postgres alike.
var schemaStmts = []string{
	`CREATE TABLE IF NOT EXISTS chapters (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		excel_row BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS works (
		id BIGINT PRIMARY KEY,
		chapter_id BIGINT NOT NULL,
		code TEXT,
		description TEXT,
		quantity DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS resources (
		id BIGINT PRIMARY KEY,
		work_id BIGINT NOT NULL,
		type TEXT,
		code TEXT,
		description TEXT,
		quantity DOUBLE PRECISION
	)`,
}

// InitSchema creates the chapters/works/resources tables when they are missing.
func (c *Conn) InitSchema(ctx context.Context) error {
	for _, st := range schemaStmts {
		if _, err := c.db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// DemoRecords is the sample estimate written by `smeta init --demo`.
func DemoRecords() model.Records {
	row := func(n int64) *int64 { return &n }
	return model.Records{
		Chapters: []model.Chapter{
			{ID: 1, Name: "Земляные работы", ExcelRow: row(12)},
			{ID: 2, Name: "Фундаменты", ExcelRow: row(40)},
		},
		Works: []model.Work{
			{ID: 10, ChapterID: 1, Code: "ФЕР01-01-013-02", Description: "Разработка грунта экскаватором", Quantity: 1.25},
			{ID: 11, ChapterID: 1, Code: "ФЕР01-02-057-02", Description: "Доработка грунта вручную", Quantity: 0.4},
			{ID: 20, ChapterID: 2, Code: "ФЕР06-01-001-01", Description: "Устройство бетонной подготовки", Quantity: 8.6},
		},
		Resources: []model.Resource{
			{ID: 100, WorkID: 10, Type: "machine", Code: "070149", Description: "Экскаваторы одноковшовые", Quantity: 22.4},
			{ID: 101, WorkID: 10, Type: "labour", Code: "1-100-20", Description: "Затраты труда машинистов", Quantity: 22.4},
			{ID: 110, WorkID: 11, Type: "labour", Code: "1-100-15", Description: "Затраты труда рабочих", Quantity: 61.2},
			{ID: 200, WorkID: 20, Type: "material", Code: "401-0006", Description: "Бетон тяжелый B7.5", Quantity: 8.77},
		},
	}
}

// SeedRecords inserts rec in one transaction.
func (c *Conn) SeedRecords(ctx context.Context, rec model.Records) error {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, ch := range rec.Chapters {
		if _, err := tx.ExecContext(ctx, c.rebind(`INSERT INTO chapters(id, name, excel_row) VALUES(?, ?, ?)`),
			ch.ID, ch.Name, ch.ExcelRow); err != nil {
			return fmt.Errorf("seed chapter %d: %w", ch.ID, err)
		}
	}
	for _, w := range rec.Works {
		if _, err := tx.ExecContext(ctx, c.rebind(`INSERT INTO works(id, chapter_id, code, description, quantity) VALUES(?, ?, ?, ?, ?)`),
			w.ID, w.ChapterID, w.Code, w.Description, w.Quantity); err != nil {
			return fmt.Errorf("seed work %d: %w", w.ID, err)
		}
	}
	for _, r := range rec.Resources {
		if _, err := tx.ExecContext(ctx, c.rebind(`INSERT INTO resources(id, work_id, type, code, description, quantity) VALUES(?, ?, ?, ?, ?, ?)`),
			r.ID, r.WorkID, r.Type, r.Code, r.Description, r.Quantity); err != nil {
			return fmt.Errorf("seed resource %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}
