// Package viewstate persists per-widget plot configuration in sqlite.
package viewstate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// State is the persisted configuration of one plot widget. It never holds
// derived geometry.
type State struct {
	Kind string `json:"kind"`

	// Expressions are the axis or corner expression ids, in axis order.
	Expressions []string `json:"expressions"`
	Regions     []string `json:"regions,omitempty"`
	Unit        string   `json:"unit,omitempty"`

	ExcludeMode bool `json:"exclude_mode,omitempty"`
	BestFit     bool `json:"best_fit,omitempty"`
	Cross       bool `json:"cross,omitempty"`

	ScaleX float64 `json:"scale_x"`
	ScaleY float64 `json:"scale_y"`
	PanX   float64 `json:"pan_x"`
	PanY   float64 `json:"pan_y"`

	// Rev orders writes for one widget. SaveLayout drops a state whose Rev
	// is lower than the stored one, so saves that finish out of order
	// cannot bring back an older layout.
	Rev int64 `json:"-"`
}

const schema = `
CREATE TABLE IF NOT EXISTS plot_layout (
    widget_id TEXT PRIMARY KEY,
    state TEXT NOT NULL,
    rev INTEGER NOT NULL DEFAULT 0,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP);
`

// Store saves and loads widget layouts.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	var version string
	if err := db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot query sqlite version: %w", err)
	}
	slog.Debug("view state database", "path", path, "sqlite", version)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("view state migration: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveLayout stores st for widgetID, replacing any earlier state with a
// revision no newer than st.Rev.
func (s *Store) SaveLayout(ctx context.Context, widgetID string, st State) error {
	buf, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO plot_layout (widget_id, state, rev, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(widget_id) DO UPDATE SET state = excluded.state, rev = excluded.rev, updated_at = excluded.updated_at
WHERE excluded.rev >= plot_layout.rev`,
		widgetID, string(buf), st.Rev)
	if err != nil {
		return fmt.Errorf("save layout %q: %w", widgetID, err)
	}
	return nil
}

// LoadLayout returns the state saved for widgetID. ok is false when there
// is none.
func (s *Store) LoadLayout(ctx context.Context, widgetID string) (st State, ok bool, err error) {
	var raw string
	var rev int64
	err = s.db.QueryRowContext(ctx, `SELECT state, rev FROM plot_layout WHERE widget_id = ?`, widgetID).Scan(&raw, &rev)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("load layout %q: %w", widgetID, err)
	}
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return State{}, false, fmt.Errorf("decode layout %q: %w", widgetID, err)
	}
	st.Rev = rev
	return st, true, nil
}

// Widgets lists the widget ids with saved state.
func (s *Store) Widgets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT widget_id FROM plot_layout ORDER BY widget_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
