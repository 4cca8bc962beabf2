package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/graph"
)

// NoteRow represents a row in the notes table.
type NoteRow struct {
	Path      string
	Title     string
	Checksum  string
	Tags      []string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// UpsertNote inserts or replaces a note, its FTS entry, and links within a transaction.
// links must already be deduplicated by target (the parser's Parse guarantees
// that); the UNIQUE constraint ignores any stragglers.
func (db *DB) UpsertNote(n NoteRow, body string, links []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(n.Tags)

	// Upsert notes table (includes body for fallback search).
	_, err = tx.Exec(`
		INSERT INTO notes (path, title, checksum, tags, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title      = excluded.title,
			checksum   = excluded.checksum,
			tags       = excluded.tags,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, n.Path, n.Title, n.Checksum, string(tagsJSON), body, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, n.Path, n.Title, body, n.Tags); err != nil {
		return err
	}

	// Replace links: delete old then bulk insert.
	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, n.Path)
	if len(links) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, target, type) VALUES (?, ?, 'inline')`)
		if err != nil {
			return fmt.Errorf("index: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, target := range links {
			if _, err := stmt.Exec(n.Path, target); err != nil {
				return fmt.Errorf("index: insert link: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteNote removes a note, its FTS entry, and outgoing links.
func (db *DB) DeleteNote(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, path)
	_, _ = tx.Exec(`DELETE FROM notes WHERE path = ?`, path)

	return tx.Commit()
}

// GetNote returns the indexed row for a note path.
func (db *DB) GetNote(path string) (*NoteRow, error) {
	var (
		row      NoteRow
		tagsJSON string
	)
	err := db.conn.QueryRow(`
		SELECT path, title, checksum, tags, updated_at FROM notes WHERE path = ?
	`, path).Scan(&row.Path, &row.Title, &row.Checksum, &tagsJSON, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get note: %w", err)
	}
	_ = json.Unmarshal([]byte(tagsJSON), &row.Tags)
	return &row, nil
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// sortColumns whitelists ListNotes sort fields.
var sortColumns = map[string]string{
	"updated_at": "updated_at DESC",
	"title":      "title COLLATE NOCASE ASC",
	"path":       "path ASC",
}

// ListNotes returns a page of notes plus the total count, optionally filtered
// by tag and ordered by a whitelisted sort field (default updated_at).
func (db *DB) ListNotes(limit, offset int, tag, sort string) ([]NoteRow, int, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	order, ok := sortColumns[sort]
	if !ok {
		order = sortColumns["updated_at"]
	}

	where := ""
	args := []any{}
	if tag != "" {
		// Tags are stored as a JSON array of strings.
		where = `WHERE tags LIKE ?`
		tagJSON, _ := json.Marshal(tag)
		args = append(args, "%"+string(tagJSON)+"%")
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count notes: %w", err)
	}

	query := fmt.Sprintf(`SELECT path, title, checksum, tags, updated_at FROM notes %s ORDER BY %s LIMIT ? OFFSET ?`, where, order)
	rows, err := db.conn.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list notes: %w", err)
	}
	defer rows.Close()

	var out []NoteRow
	for rows.Next() {
		var (
			r        NoteRow
			tagsJSON string
		)
		if err := rows.Scan(&r.Path, &r.Title, &r.Checksum, &tagsJSON, &r.UpdatedAt); err != nil {
			return nil, 0, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &r.Tags)
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// AllPaths returns every indexed note path.
func (db *DB) AllPaths() (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT path FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all paths: %w", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out[p] = struct{}{}
	}
	return out, rows.Err()
}

// AllChecksums returns path -> checksum for every indexed note.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// Backlinks returns all note paths that link to the given target.
func (db *DB) Backlinks(target string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT source FROM links WHERE target = ?`, target)
	if err != nil {
		return nil, fmt.Errorf("index: backlinks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FetchNotes returns a snapshot of the whole corpus for one graph build:
// every note with its title, tags, and stored outgoing link targets. The
// vault is a single owner's corpus, so there is no per-user filter. Both
// queries run inside one read transaction so the graph never sees a
// half-updated corpus.
func (db *DB) FetchNotes(ctx context.Context) ([]graph.SourceNote, error) {
	tx, err := db.conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("index: begin corpus tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	rows, err := tx.QueryContext(ctx, `SELECT path, title, tags FROM notes ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("index: fetch notes: %w", err)
	}
	defer rows.Close()

	var notes []graph.SourceNote
	byPath := make(map[string]int)
	for rows.Next() {
		var (
			n        graph.SourceNote
			tagsJSON string
		)
		if err := rows.Scan(&n.ID, &n.Title, &tagsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tagsJSON), &n.Tags); err != nil {
			slog.Warn("index: unreadable tags, note joins graph untagged",
				slog.String("path", n.ID), slog.String("error", err.Error()))
		}
		byPath[n.ID] = len(notes)
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	linkRows, err := tx.QueryContext(ctx, `SELECT source, target FROM links ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("index: fetch links: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var source, target string
		if err := linkRows.Scan(&source, &target); err != nil {
			return nil, err
		}
		if i, ok := byPath[source]; ok {
			notes[i].OutgoingLinks = append(notes[i].OutgoingLinks, target)
		}
	}
	return notes, linkRows.Err()
}
