package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store manages the SQLite database for session state and memory artifacts
type Store struct {
	db *sql.DB
}

// Session is one workflow run with its own temp: tier
type Session struct {
	ID        string
	Template  string
	CreatedAt time.Time
}

// Artifact is a remembered agent output: a project pattern, a code
// template, or a recorded best practice.
type Artifact struct {
	ID        int64
	SessionID string
	Kind      string
	Content   string
	Agent     string
	CreatedAt time.Time
}

// NewStore opens (or creates) the state database
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		template TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Tier-prefixed session state (user:, app:, temp:)
	CREATE TABLE IF NOT EXISTS session_state (
		session_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (session_id, key),
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);

	-- Remembered agent outputs
	CREATE TABLE IF NOT EXISTS artifacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		content TEXT NOT NULL,
		agent TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_state_session ON session_state(session_id);
	CREATE INDEX IF NOT EXISTS idx_artifacts_session ON artifacts(session_id);
	CREATE INDEX IF NOT EXISTS idx_artifacts_kind ON artifacts(kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateSession starts a new session seeded from a template. An empty or
// unknown template name starts a blank session.
func (s *Store) CreateSession(template string) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		Template:  template,
		CreatedAt: time.Now(),
	}

	if _, err := s.db.Exec(
		`INSERT INTO sessions (id, template, created_at) VALUES (?, ?, ?)`,
		session.ID, session.Template, session.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if seed := TemplateState(template); seed != nil {
		for key, value := range seed {
			if err := s.Set(session.ID, key, value); err != nil {
				return nil, err
			}
		}
	}

	return session, nil
}

// Set stores one state value. Values are JSON-encoded.
func (s *Store) Set(sessionID, key string, value interface{}) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO session_state (session_id, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		sessionID, key, string(encoded),
	)
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Get reads one state value into out (a pointer). Returns false when the
// key is absent.
func (s *Store) Get(sessionID, key string, out interface{}) (bool, error) {
	var raw string
	err := s.db.QueryRow(
		`SELECT value FROM session_state WHERE session_id = ? AND key = ?`,
		sessionID, key,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// All returns every state entry of a session, decoded
func (s *Store) All(sessionID string) (map[string]interface{}, error) {
	rows, err := s.db.Query(
		`SELECT key, value FROM session_state WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list state: %w", err)
	}
	defer rows.Close()

	result := make(map[string]interface{})
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		var value interface{}
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		result[key] = value
	}
	return result, rows.Err()
}

// UserPreferences returns the user: tier with the prefix stripped
func (s *Store) UserPreferences(sessionID string) (map[string]interface{}, error) {
	all, err := s.All(sessionID)
	if err != nil {
		return nil, err
	}

	preferences := make(map[string]interface{})
	for key, value := range all {
		if strings.HasPrefix(key, PrefixUser) {
			preferences[strings.TrimPrefix(key, PrefixUser)] = value
		}
	}
	return preferences, nil
}

// CompleteStep appends a step to temp:completed_steps
func (s *Store) CompleteStep(sessionID, step string) error {
	var steps []string
	if _, err := s.Get(sessionID, "temp:completed_steps", &steps); err != nil {
		return err
	}
	steps = append(steps, step)
	return s.Set(sessionID, "temp:completed_steps", steps)
}

// ClearTemp drops the temp: tier of a session
func (s *Store) ClearTemp(sessionID string) error {
	_, err := s.db.Exec(
		`DELETE FROM session_state WHERE session_id = ? AND key LIKE ?`,
		sessionID, PrefixTemp+"%",
	)
	if err != nil {
		return fmt.Errorf("failed to clear temp state: %w", err)
	}
	return nil
}

// SaveArtifact remembers an agent output
func (s *Store) SaveArtifact(sessionID, kind, content, agent string) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO artifacts (session_id, kind, content, agent) VALUES (?, ?, ?, ?)`,
		sessionID, kind, content, agent,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save artifact: %w", err)
	}
	return result.LastInsertId()
}

// SearchArtifacts returns artifacts of a kind whose content contains the
// query, newest first.
func (s *Store) SearchArtifacts(kind, query string, limit int) ([]Artifact, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.Query(`
		SELECT id, session_id, kind, content, COALESCE(agent, ''), created_at
		FROM artifacts
		WHERE kind = ? AND content LIKE ?
		ORDER BY created_at DESC
		LIMIT ?`,
		kind, "%"+query+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Kind, &a.Content, &a.Agent, &a.CreatedAt); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}
