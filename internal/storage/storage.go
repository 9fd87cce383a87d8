// Package storage persists records and notebooks in a local SQLite
// database via the pure-Go modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"jotter/internal/record"
)

// ErrDuplicateName reports a notebook name collision.
var ErrDuplicateName = errors.New("notebook name already exists")

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	body TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'open',
	tags TEXT NOT NULL DEFAULT '',
	archived INTEGER NOT NULL DEFAULT 0,
	sort_order INTEGER NOT NULL DEFAULT 0,
	notebook_id INTEGER DEFAULT NULL,
	due TEXT DEFAULT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	body TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '',
	archived INTEGER NOT NULL DEFAULT 0,
	sort_order INTEGER NOT NULL DEFAULT 0,
	notebook_id INTEGER DEFAULT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS journals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	body TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '',
	archived INTEGER NOT NULL DEFAULT 0,
	sort_order INTEGER NOT NULL DEFAULT 0,
	notebook_id INTEGER DEFAULT NULL,
	date TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS notebooks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL
);`,
	}
	for _, ddl := range stmts {
		if _, err := s.db.Exec(ddl); err != nil {
			return err
		}
	}
	for _, tbl := range []string{"tasks", "notes", "journals"} {
		if err := s.ensureColumns(tbl); err != nil {
			return err
		}
	}
	return nil
}

// ensureColumns backfills columns added after the first release so old
// databases keep working.
func (s *Store) ensureColumns(table string) error {
	required := map[string]string{
		"sort_order":  fmt.Sprintf("ALTER TABLE %s ADD COLUMN sort_order INTEGER NOT NULL DEFAULT 0;", table),
		"notebook_id": fmt.Sprintf("ALTER TABLE %s ADD COLUMN notebook_id INTEGER DEFAULT NULL;", table),
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s);", table))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

func tableFor(kind record.Kind) (string, error) {
	switch kind {
	case record.KindTask:
		return "tasks", nil
	case record.KindNote:
		return "notes", nil
	case record.KindJournal:
		return "journals", nil
	}
	return "", fmt.Errorf("unknown record kind %d", kind)
}

// List returns every record of one kind ordered by sort_order with id as
// tiebreak.
func (s *Store) List(kind record.Kind) ([]record.Record, error) {
	tbl, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	cols := "id, title, body, tags, archived, sort_order, notebook_id, created_at, updated_at"
	switch kind {
	case record.KindTask:
		cols += ", status, due"
	case record.KindJournal:
		cols += ", date"
	}
	rows, err := s.db.Query(fmt.Sprintf("SELECT %s FROM %s ORDER BY sort_order, id;", cols, tbl))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []record.Record
	for rows.Next() {
		rec, err := scanRecord(kind, rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

func scanRecord(kind record.Kind, rows *sql.Rows) (record.Record, error) {
	var rec record.Record
	rec.Kind = kind

	var tags string
	var archived int
	var notebookID sql.NullInt64
	var createdStr, updatedStr string
	dest := []any{&rec.ID, &rec.Title, &rec.Body, &tags, &archived, &rec.OrderKey, &notebookID, &createdStr, &updatedStr}

	var status string
	var dueStr sql.NullString
	var dateStr string
	switch kind {
	case record.KindTask:
		dest = append(dest, &status, &dueStr)
	case record.KindJournal:
		dest = append(dest, &dateStr)
	}

	if err := rows.Scan(dest...); err != nil {
		return record.Record{}, err
	}
	rec.Tags = record.ParseTags(tags)
	rec.Archived = archived == 1
	if notebookID.Valid {
		id := notebookID.Int64
		rec.NotebookID = &id
	}
	if created, err := time.Parse(time.RFC3339, createdStr); err == nil {
		rec.Created = created
	}
	if updated, err := time.Parse(time.RFC3339, updatedStr); err == nil {
		rec.Updated = updated
	}
	switch kind {
	case record.KindTask:
		rec.Status = record.ParseStatus(status)
		if dueStr.Valid {
			if due, err := time.Parse(record.DateLayout, dueStr.String); err == nil {
				rec.Due = &due
			}
		}
	case record.KindJournal:
		if date, err := time.Parse(record.DateLayout, dateStr); err == nil {
			rec.Date = date
		}
	}
	return rec, nil
}

// Create inserts rec at the end of its kind's order and fills in the
// assigned ID, order key, and timestamps.
func (s *Store) Create(rec *record.Record) error {
	tbl, err := tableFor(rec.Kind)
	if err != nil {
		return err
	}
	var maxOrder int64
	if err := s.db.QueryRow(fmt.Sprintf("SELECT COALESCE(MAX(sort_order), -1) FROM %s;", tbl)).Scan(&maxOrder); err != nil {
		return err
	}
	now := time.Now().UTC()
	nowStr := now.Format(time.RFC3339)
	rec.OrderKey = maxOrder + 1
	rec.Created = now
	rec.Updated = now

	var res sql.Result
	switch rec.Kind {
	case record.KindTask:
		if rec.Status == "" {
			rec.Status = record.StatusOpen
		}
		res, err = s.db.Exec(
			`INSERT INTO tasks (title, body, status, tags, archived, sort_order, notebook_id, due, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
			rec.Title, rec.Body, string(rec.Status), record.JoinTags(rec.Tags), boolInt(rec.Archived),
			rec.OrderKey, rec.NotebookID, nullDate(rec.Due), nowStr, nowStr)
	case record.KindNote:
		res, err = s.db.Exec(
			`INSERT INTO notes (title, body, tags, archived, sort_order, notebook_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
			rec.Title, rec.Body, record.JoinTags(rec.Tags), boolInt(rec.Archived),
			rec.OrderKey, rec.NotebookID, nowStr, nowStr)
	case record.KindJournal:
		if rec.Date.IsZero() {
			rec.Date = now
		}
		res, err = s.db.Exec(
			`INSERT INTO journals (title, body, tags, archived, sort_order, notebook_id, date, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
			rec.Title, rec.Body, record.JoinTags(rec.Tags), boolInt(rec.Archived),
			rec.OrderKey, rec.NotebookID, rec.Date.Format(record.DateLayout), nowStr, nowStr)
	}
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = id
	return nil
}

// Update rewrites every editable field of rec's row and bumps updated_at.
func (s *Store) Update(rec record.Record) error {
	now := time.Now().UTC().Format(time.RFC3339)
	var err error
	switch rec.Kind {
	case record.KindTask:
		_, err = s.db.Exec(
			`UPDATE tasks SET title = ?, body = ?, status = ?, tags = ?, archived = ?, sort_order = ?, notebook_id = ?, due = ?, updated_at = ? WHERE id = ?;`,
			rec.Title, rec.Body, string(rec.Status), record.JoinTags(rec.Tags), boolInt(rec.Archived),
			rec.OrderKey, rec.NotebookID, nullDate(rec.Due), now, rec.ID)
	case record.KindNote:
		_, err = s.db.Exec(
			`UPDATE notes SET title = ?, body = ?, tags = ?, archived = ?, sort_order = ?, notebook_id = ?, updated_at = ? WHERE id = ?;`,
			rec.Title, rec.Body, record.JoinTags(rec.Tags), boolInt(rec.Archived),
			rec.OrderKey, rec.NotebookID, now, rec.ID)
	case record.KindJournal:
		_, err = s.db.Exec(
			`UPDATE journals SET title = ?, body = ?, tags = ?, archived = ?, sort_order = ?, notebook_id = ?, date = ?, updated_at = ? WHERE id = ?;`,
			rec.Title, rec.Body, record.JoinTags(rec.Tags), boolInt(rec.Archived),
			rec.OrderKey, rec.NotebookID, rec.Date.Format(record.DateLayout), now, rec.ID)
	default:
		return fmt.Errorf("unknown record kind %d", rec.Kind)
	}
	return err
}

func (s *Store) Delete(kind record.Kind, id int64) error {
	tbl, err := tableFor(kind)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?;", tbl), id)
	return err
}

func (s *Store) SetArchived(kind record.Kind, id int64, archived bool) error {
	tbl, err := tableFor(kind)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(fmt.Sprintf("UPDATE %s SET archived = ?, updated_at = ? WHERE id = ?;", tbl),
		boolInt(archived), now, id)
	return err
}

func (s *Store) SetTaskStatus(id int64, status record.Status) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?;`,
		string(status), now, id)
	return err
}

// SwapOrder exchanges the sort keys of two records of the same kind in one
// transaction.
func (s *Store) SwapOrder(kind record.Kind, a, b int64) error {
	tbl, err := tableFor(kind)
	if err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var orderA, orderB int64
	if err := tx.QueryRow(fmt.Sprintf("SELECT sort_order FROM %s WHERE id = ?;", tbl), a).Scan(&orderA); err != nil {
		return err
	}
	if err := tx.QueryRow(fmt.Sprintf("SELECT sort_order FROM %s WHERE id = ?;", tbl), b).Scan(&orderB); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("UPDATE %s SET sort_order = ? WHERE id = ?;", tbl), orderB, a); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("UPDATE %s SET sort_order = ? WHERE id = ?;", tbl), orderA, b); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ListNotebooks() ([]record.Notebook, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at FROM notebooks ORDER BY name, id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []record.Notebook
	for rows.Next() {
		var nb record.Notebook
		var createdStr string
		if err := rows.Scan(&nb.ID, &nb.Name, &createdStr); err != nil {
			return nil, err
		}
		if created, err := time.Parse(time.RFC3339, createdStr); err == nil {
			nb.Created = created
		}
		books = append(books, nb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

func (s *Store) CreateNotebook(name string) (record.Notebook, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(`INSERT INTO notebooks (name, created_at) VALUES (?, ?);`,
		name, now.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return record.Notebook{}, ErrDuplicateName
		}
		return record.Notebook{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return record.Notebook{}, err
	}
	return record.Notebook{ID: id, Name: name, Created: now}, nil
}

func (s *Store) RenameNotebook(id int64, name string) error {
	_, err := s.db.Exec(`UPDATE notebooks SET name = ? WHERE id = ?;`, name, id)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateName
	}
	return err
}

// DeleteNotebook removes the notebook and unfiles every record that
// referenced it, atomically.
func (s *Store) DeleteNotebook(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, tbl := range []string{"tasks", "notes", "journals"} {
		if _, err := tx.Exec(fmt.Sprintf("UPDATE %s SET notebook_id = NULL WHERE notebook_id = ?;", tbl), id); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`DELETE FROM notebooks WHERE id = ?;`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) AssignNotebook(kind record.Kind, id int64, notebookID *int64) error {
	tbl, err := tableFor(kind)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(fmt.Sprintf("UPDATE %s SET notebook_id = ?, updated_at = ? WHERE id = ?;", tbl),
		notebookID, now, id)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(record.DateLayout), Valid: true}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
