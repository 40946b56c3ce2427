package history

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no saved notebook has the given name.
var ErrNotFound = errors.New("notebook not found")

// Entry is one saved notebook document.
type Entry struct {
	ID        string
	Name      string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists notebooks in a local sqlite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS notebooks (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// Open creates or opens the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a notebook under name, overwriting any previous content.
func (s *Store) Save(name, content string) (*Entry, error) {
	now := time.Now().UTC()
	e := &Entry{
		ID:        uuid.NewString(),
		Name:      name,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.Exec(`
		INSERT INTO notebooks (id, name, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at`,
		e.ID, e.Name, e.Content, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s.Load(name)
}

// Load fetches a notebook by name.
func (s *Store) Load(name string) (*Entry, error) {
	row := s.db.QueryRow(`
		SELECT id, name, content, created_at, updated_at
		FROM notebooks WHERE name = ?`, name)
	var e Entry
	err := row.Scan(&e.ID, &e.Name, &e.Content, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns all saved notebooks, most recently updated first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, name, content, created_at, updated_at
		FROM notebooks ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Content, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes a saved notebook.
func (s *Store) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM notebooks WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
