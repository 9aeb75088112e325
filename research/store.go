// Package research persists finished research runs in an embedded libsql
// database so later queries can reuse earlier answers.
package research

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/go-libsql"
)

// DefaultThreshold is the minimum token-overlap similarity for a stored
// note to count as a match.
const DefaultThreshold = 0.6

// Note is one stored research result.
type Note struct {
	ID        string
	Query     string
	Answer    string
	CreatedAt time.Time
}

// Store persists research notes and retrieves them by query similarity.
type Store struct {
	db        *sql.DB
	threshold float64
}

// Open creates or opens the database file at path and runs migrations.
// threshold <= 0 uses DefaultThreshold.
func Open(path string, threshold float64) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create database directory %s: %w", dir, err)
	}
	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open libsql connection: %w", err)
	}
	store, err := NewStore(db, threshold)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewStore wraps an existing database handle. Useful for tests with an
// in-memory database.
func NewStore(db *sql.DB, threshold float64) (*Store, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	s := &Store{db: db, threshold: threshold}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS research_notes (
			id         TEXT PRIMARY KEY,
			query      TEXT NOT NULL,
			answer     TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate research_notes: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a finished run and returns the note's ID.
func (s *Store) Save(ctx context.Context, query, answer string) (string, error) {
	query = strings.TrimSpace(query)
	answer = strings.TrimSpace(answer)
	if query == "" || answer == "" {
		return "", errors.New("query and answer must be non-empty")
	}
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO research_notes (id, query, answer, created_at) VALUES (?, ?, ?, ?)`,
		id, query, answer, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("save note: %w", err)
	}
	return id, nil
}

// FindSimilar returns the stored note whose query best matches the given
// one, provided the similarity clears the threshold. The second return is
// false when nothing matches.
func (s *Store) FindSimilar(ctx context.Context, query string) (*Note, bool, error) {
	want := tokenize(query)
	if len(want) == 0 {
		return nil, false, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, answer, created_at FROM research_notes ORDER BY created_at DESC`)
	if err != nil {
		return nil, false, fmt.Errorf("find similar: %w", err)
	}
	defer rows.Close()

	var best *Note
	bestScore := 0.0
	for rows.Next() {
		var n Note
		var createdAt string
		if err := rows.Scan(&n.ID, &n.Query, &n.Answer, &createdAt); err != nil {
			return nil, false, fmt.Errorf("scan note: %w", err)
		}
		n.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		score := similarity(want, tokenize(n.Query))
		if score >= s.threshold && score > bestScore {
			note := n
			best = &note
			bestScore = score
		}
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return best, best != nil, nil
}

// tokenize lowercases and splits on non-alphanumeric runes, dropping
// single-character tokens.
func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if len(tok) > 1 {
			tokens[tok] = true
		}
	}
	return tokens
}

// similarity is the Jaccard index of two token sets.
func similarity(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for tok := range a {
		if b[tok] {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}
