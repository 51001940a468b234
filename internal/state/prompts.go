package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wingbeat/wingbeat/pkg/models"
)

// ErrNotFound indicates the requested prompt does not exist.
var ErrNotFound = errors.New("prompt not found")

// PromptRecord is the persisted form of a submitted prompt.
type PromptRecord struct {
	// ID is the prompt's unique identifier.
	ID string
	// Content is the original prompt text.
	Content string
	// Status is the prompt's lifecycle state.
	Status models.PromptStatus
	// Output is the assembled result, set once the prompt completes.
	Output string
	// FragmentCount is how many fragments the prompt was cut into.
	FragmentCount int
	// CreatedAt is when the prompt was submitted.
	CreatedAt time.Time
	// CompletedAt is when the output was assembled, if it was.
	CompletedAt *time.Time
}

// SavePrompt inserts a prompt record. Saving an existing id overwrites it.
func (db *DB) SavePrompt(rec PromptRecord) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO prompts (id, content, status, output, fragment_count, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Content, string(rec.Status), rec.Output, rec.FragmentCount, rec.CreatedAt, rec.CompletedAt)
	if err != nil {
		return fmt.Errorf("save prompt: %w", err)
	}
	return nil
}

// UpdateStatus sets a prompt's status.
func (db *DB) UpdateStatus(id string, status models.PromptStatus) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.conn.Exec("UPDATE prompts SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CompletePrompt records a prompt's assembled output and marks it complete.
func (db *DB) CompletePrompt(id, output string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	now := time.Now()
	res, err := db.conn.Exec(`
		UPDATE prompts SET status = ?, output = ?, completed_at = ? WHERE id = ?
	`, string(models.PromptComplete), output, now, id)
	if err != nil {
		return fmt.Errorf("complete prompt: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPrompt returns the prompt with the given id.
func (db *DB) GetPrompt(id string) (*PromptRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	row := db.conn.QueryRow(`
		SELECT id, content, status, COALESCE(output, ''), fragment_count, created_at, completed_at
		FROM prompts WHERE id = ?
	`, id)

	rec, err := scanPrompt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get prompt: %w", err)
	}
	return rec, nil
}

// ListPrompts returns all prompt records, newest first.
func (db *DB) ListPrompts() ([]*PromptRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query(`
		SELECT id, content, status, COALESCE(output, ''), fragment_count, created_at, completed_at
		FROM prompts ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var out []*PromptRecord
	for rows.Next() {
		rec, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RemovePrompt deletes a prompt record.
func (db *DB) RemovePrompt(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.conn.Exec("DELETE FROM prompts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("remove prompt: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPrompt(s scanner) (*PromptRecord, error) {
	var rec PromptRecord
	var status string
	if err := s.Scan(&rec.ID, &rec.Content, &status, &rec.Output, &rec.FragmentCount, &rec.CreatedAt, &rec.CompletedAt); err != nil {
		return nil, err
	}
	rec.Status = models.PromptStatus(status)
	return &rec, nil
}
