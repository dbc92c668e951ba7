// Package store is the persistence collaborator: a sqlite database
// receiving the ordered entity stream the pipeline produces.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/clinicalaide/stgkb/internal/guideline"
)

const schema = `
CREATE TABLE IF NOT EXISTS chapters (
	number     INTEGER PRIMARY KEY,
	title      TEXT NOT NULL,
	start_page INTEGER NOT NULL,
	end_page   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS conditions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	page_number INTEGER NOT NULL,
	created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS content_blocks (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	condition_id INTEGER NOT NULL,
	block_type   TEXT NOT NULL,
	content      TEXT NOT NULL,
	block_order  INTEGER NOT NULL,
	FOREIGN KEY (condition_id) REFERENCES conditions(id)
);

CREATE TABLE IF NOT EXISTS medications (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	name              TEXT NOT NULL,
	dosage            TEXT,
	frequency         TEXT,
	duration          TEXT,
	route             TEXT,
	contraindications TEXT,
	side_effects      TEXT,
	created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_conditions_name ON conditions(name);
CREATE INDEX IF NOT EXISTS idx_blocks_condition ON content_blocks(condition_id);
CREATE INDEX IF NOT EXISTS idx_medications_name ON medications(name);
`

// SQLite implements pipeline.Sink over a local sqlite database.
type SQLite struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// SaveChapters upserts the full chapter list keyed by chapter number.
func (s *SQLite) SaveChapters(ctx context.Context, chapters []guideline.Chapter) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, ch := range chapters {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO chapters (number, title, start_page, end_page) VALUES (?, ?, ?, ?)`,
			ch.Number, ch.Title, ch.StartPage, ch.EndPage,
		); err != nil {
			return fmt.Errorf("insert chapter %d: %w", ch.Number, err)
		}
	}
	return tx.Commit()
}

// SaveConditions stores conditions with their nested, ordered content
// blocks.
func (s *SQLite) SaveConditions(ctx context.Context, conditions []guideline.Condition) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, cond := range conditions {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO conditions (name, page_number) VALUES (?, ?)`,
			cond.Name, cond.Page,
		)
		if err != nil {
			return fmt.Errorf("insert condition %q: %w", cond.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("condition id: %w", err)
		}
		for _, block := range cond.Blocks {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO content_blocks (condition_id, block_type, content, block_order) VALUES (?, ?, ?, ?)`,
				id, string(block.Type), block.Content, block.Order,
			); err != nil {
				return fmt.Errorf("insert block %d of %q: %w", block.Order, cond.Name, err)
			}
		}
	}
	return tx.Commit()
}

// SaveMedications stores one chunk's deduplicated medications.
func (s *SQLite) SaveMedications(ctx context.Context, medications []guideline.Medication) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, med := range medications {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO medications (name, dosage, frequency, duration, route, contraindications, side_effects)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			med.Name, med.Dosage, med.Frequency, med.Duration, med.Route,
			strings.Join(med.Contraindications, "; "),
			strings.Join(med.SideEffects, "; "),
		); err != nil {
			return fmt.Errorf("insert medication %q: %w", med.Name, err)
		}
	}
	return tx.Commit()
}

// Counts returns stored row counts per entity table.
func (s *SQLite) Counts(ctx context.Context) (chapters, conditions, medications int, err error) {
	rows := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM chapters`, &chapters},
		{`SELECT COUNT(*) FROM conditions`, &conditions},
		{`SELECT COUNT(*) FROM medications`, &medications},
	}
	for _, r := range rows {
		if err = s.db.QueryRowContext(ctx, r.query).Scan(r.dst); err != nil {
			return 0, 0, 0, err
		}
	}
	return chapters, conditions, medications, nil
}
