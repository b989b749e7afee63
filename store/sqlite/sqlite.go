// Package sqlite implements store.Store using SQLite.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/civigen/billforge/model"
)

// Store manages bill and run persistence in SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bills (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			gov_id      TEXT NOT NULL DEFAULT '',
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			source_url  TEXT NOT NULL DEFAULT '',
			text_path   TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS bill_meta (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			bill_id  INTEGER NOT NULL,
			type     TEXT NOT NULL,
			text     TEXT NOT NULL,
			language TEXT NOT NULL DEFAULT 'EN',
			FOREIGN KEY (bill_id) REFERENCES bills(id)
		);

		CREATE INDEX IF NOT EXISTS idx_bill_meta_bill_id
			ON bill_meta(bill_id);

		CREATE TABLE IF NOT EXISTS runs (
			id              TEXT PRIMARY KEY,
			bill_url        TEXT NOT NULL,
			jurisdiction    TEXT NOT NULL DEFAULT 'FL',
			language        TEXT NOT NULL DEFAULT 'EN',
			status          TEXT NOT NULL DEFAULT 'pending',
			bill_id         INTEGER NOT NULL DEFAULT 0,
			discussion_url  TEXT NOT NULL DEFAULT '',
			webflow_item_id TEXT NOT NULL DEFAULT '',
			error           TEXT NOT NULL DEFAULT '',
			created_at      DATETIME NOT NULL DEFAULT (datetime('now')),
			updated_at      DATETIME NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS run_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL,
			type       TEXT NOT NULL,
			data       TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (run_id) REFERENCES runs(id)
		);

		CREATE INDEX IF NOT EXISTS idx_run_events_run_id
			ON run_events(run_id);
	`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// --- Bills ---

// CreateBill inserts a new bill and fills in its assigned ID.
func (s *Store) CreateBill(bill *model.Bill) error {
	result, err := s.db.Exec(
		`INSERT INTO bills (gov_id, title, description, source_url, text_path)
		 VALUES (?, ?, ?, ?, ?)`,
		bill.GovID, bill.Title, bill.Description, bill.SourceURL, bill.TextPath,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	bill.ID = id
	return nil
}

// GetBill retrieves a bill by ID.
func (s *Store) GetBill(id int64) (*model.Bill, error) {
	row := s.db.QueryRow(
		`SELECT id, gov_id, title, description, source_url, text_path
		 FROM bills WHERE id = ?`, id,
	)
	return scanBill(row)
}

// GetBillByGovID retrieves the most recent bill with the given government ID.
func (s *Store) GetBillByGovID(govID string) (*model.Bill, error) {
	row := s.db.QueryRow(
		`SELECT id, gov_id, title, description, source_url, text_path
		 FROM bills WHERE gov_id = ? ORDER BY id DESC LIMIT 1`, govID,
	)
	return scanBill(row)
}

// AddBillMeta inserts a generated text record for a bill.
func (s *Store) AddBillMeta(meta *model.BillMeta) error {
	result, err := s.db.Exec(
		`INSERT INTO bill_meta (bill_id, type, text, language)
		 VALUES (?, ?, ?, ?)`,
		meta.BillID, meta.Type, meta.Text, meta.Language,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	meta.ID = id
	return nil
}

// GetBillMeta returns all metadata rows for a bill.
func (s *Store) GetBillMeta(billID int64) ([]*model.BillMeta, error) {
	rows, err := s.db.Query(
		`SELECT id, bill_id, type, text, language
		 FROM bill_meta WHERE bill_id = ? ORDER BY id ASC`, billID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metas []*model.BillMeta
	for rows.Next() {
		m := &model.BillMeta{}
		if err := rows.Scan(&m.ID, &m.BillID, &m.Type, &m.Text, &m.Language); err != nil {
			return nil, err
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// --- Runs ---

// CreateRun inserts a new run.
func (s *Store) CreateRun(run *model.Run) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, bill_url, jurisdiction, language, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.BillURL, run.Jurisdiction, run.Language, run.Status,
		run.CreatedAt, run.UpdatedAt,
	)
	return err
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (*model.Run, error) {
	row := s.db.QueryRow(
		`SELECT id, bill_url, jurisdiction, language, status, bill_id,
		        discussion_url, webflow_item_id, error, created_at, updated_at
		 FROM runs WHERE id = ?`, id,
	)
	return scanRun(row)
}

// ListRuns returns all runs ordered by creation time (newest first).
func (s *Store) ListRuns() ([]*model.Run, error) {
	rows, err := s.db.Query(
		`SELECT id, bill_url, jurisdiction, language, status, bill_id,
		        discussion_url, webflow_item_id, error, created_at, updated_at
		 FROM runs ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// UpdateRun updates mutable fields of a run.
func (s *Store) UpdateRun(run *model.Run) error {
	run.UpdatedAt = time.Now().UTC()
	_, err := s.db.Exec(
		`UPDATE runs SET
			status = ?, bill_id = ?, discussion_url = ?, webflow_item_id = ?,
			error = ?, updated_at = ?
		 WHERE id = ?`,
		run.Status, run.BillID, run.DiscussionURL, run.WebflowItemID,
		run.Error, run.UpdatedAt, run.ID,
	)
	return err
}

// --- Events ---

// AddEvent inserts a new event and returns its ID.
func (s *Store) AddEvent(event *model.Event) error {
	result, err := s.db.Exec(
		`INSERT INTO run_events (run_id, type, data, created_at)
		 VALUES (?, ?, ?, ?)`,
		event.RunID, event.Type, event.Data, event.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	event.ID = id
	return nil
}

// GetEvents returns events for a run, optionally after a given event ID.
func (s *Store) GetEvents(runID string, afterID int64) ([]*model.Event, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, type, data, created_at
		 FROM run_events
		 WHERE run_id = ? AND id > ?
		 ORDER BY id ASC`,
		runID, afterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e := &model.Event{}
		if err := rows.Scan(&e.ID, &e.RunID, &e.Type, &e.Data, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// --- Scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

func scanBill(row scannable) (*model.Bill, error) {
	b := &model.Bill{}
	err := row.Scan(&b.ID, &b.GovID, &b.Title, &b.Description, &b.SourceURL, &b.TextPath)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func scanRun(row scannable) (*model.Run, error) {
	r := &model.Run{}
	err := row.Scan(
		&r.ID, &r.BillURL, &r.Jurisdiction, &r.Language, &r.Status, &r.BillID,
		&r.DiscussionURL, &r.WebflowItemID, &r.Error, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}
