package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/padsync/padsync/internal/domain/presence"
	"github.com/padsync/padsync/internal/repository"
)

// PresenceRepository implements presence.Repository for SQLite
type PresenceRepository struct {
	db *DB
}

// NewPresenceRepository creates a new PresenceRepository
func NewPresenceRepository(db *DB) *PresenceRepository {
	return &PresenceRepository{db: db}
}

// Upsert replaces the presence row for (file, user) wholesale. ON CONFLICT
// keeps the write a single O(1) statement with no read-modify-write cycle,
// which matters because cursor moves are the hottest write in the system.
func (r *PresenceRepository) Upsert(ctx context.Context, p *presence.Presence) error {
	var selStartLine, selStartCol, selEndLine, selEndCol sql.NullInt64
	if sel := p.Cursor.Selection; sel != nil {
		selStartLine = sql.NullInt64{Int64: int64(sel.StartLine), Valid: true}
		selStartCol = sql.NullInt64{Int64: int64(sel.StartColumn), Valid: true}
		selEndLine = sql.NullInt64{Int64: int64(sel.EndLine), Valid: true}
		selEndCol = sql.NullInt64{Int64: int64(sel.EndColumn), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO presence (file_id, user_id, name, avatar, cursor_line, cursor_col,
			sel_start_line, sel_start_col, sel_end_line, sel_end_col, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id, user_id) DO UPDATE SET
			name = excluded.name,
			avatar = excluded.avatar,
			cursor_line = excluded.cursor_line,
			cursor_col = excluded.cursor_col,
			sel_start_line = excluded.sel_start_line,
			sel_start_col = excluded.sel_start_col,
			sel_end_line = excluded.sel_end_line,
			sel_end_col = excluded.sel_end_col,
			last_seen = excluded.last_seen
	`,
		p.FileID,
		p.UserID,
		p.Name,
		p.Avatar,
		p.Cursor.Line,
		p.Cursor.Column,
		selStartLine,
		selStartCol,
		selEndLine,
		selEndCol,
		p.LastSeen,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to upsert presence: %w", err)
	}
	return nil
}

// Touch bumps last_seen for an existing row
func (r *PresenceRepository) Touch(ctx context.Context, fileID, userID string, now time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE presence SET last_seen = ? WHERE file_id = ? AND user_id = ?
	`, now, fileID, userID)
	if err != nil {
		return fmt.Errorf("failed to touch presence: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListSince returns presence rows for a file seen at or after the cutoff.
// Stale rows stay in the table; recency filtering happens here, at read time.
func (r *PresenceRepository) ListSince(ctx context.Context, fileID string, cutoff time.Time) ([]presence.Presence, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT file_id, user_id, name, avatar, cursor_line, cursor_col,
			sel_start_line, sel_start_col, sel_end_line, sel_end_col, last_seen
		FROM presence
		WHERE file_id = ? AND last_seen >= ?
		ORDER BY user_id ASC
	`, fileID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list presence: %w", err)
	}
	defer rows.Close()

	var result []presence.Presence
	for rows.Next() {
		var p presence.Presence
		var selStartLine, selStartCol, selEndLine, selEndCol sql.NullInt64
		err := rows.Scan(
			&p.FileID,
			&p.UserID,
			&p.Name,
			&p.Avatar,
			&p.Cursor.Line,
			&p.Cursor.Column,
			&selStartLine,
			&selStartCol,
			&selEndLine,
			&selEndCol,
			&p.LastSeen,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan presence: %w", err)
		}
		if selStartLine.Valid {
			p.Cursor.Selection = &presence.Selection{
				StartLine:   int(selStartLine.Int64),
				StartColumn: int(selStartCol.Int64),
				EndLine:     int(selEndLine.Int64),
				EndColumn:   int(selEndCol.Int64),
			}
		}
		result = append(result, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating presence rows: %w", err)
	}
	return result, nil
}

// PurgeStale deletes rows older than the cutoff. Only the background reaper
// calls this; reads never depend on purging having run.
func (r *PresenceRepository) PurgeStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM presence WHERE last_seen < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge presence: %w", err)
	}
	return result.RowsAffected()
}
