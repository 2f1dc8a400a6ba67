package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskdeckapp/taskdeck-server/internal/domain"
	"github.com/taskdeckapp/taskdeck-server/internal/store"
)

// noteColumns is the ordered list of columns selected in note queries.
// Must match the scan order in scanNote.
const noteColumns = `id, user_id, title, content, collection_id, created_at, updated_at`

// scanNote scans a sql.Row (or sql.Rows via its Scan method) into a domain.Note.
// TagIDs are not populated here; callers load associations separately.
func scanNote(scanner interface{ Scan(dest ...any) error }) (*domain.Note, error) {
	var n domain.Note

	var (
		collectionID sql.NullString
		createdAt    string
		updatedAt    string
	)

	err := scanner.Scan(
		&n.ID,
		&n.UserID,
		&n.Title,
		&n.Content,
		&collectionID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.CollectionID = collectionID.String
	n.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	n.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

// CreateNote inserts a note and its tag associations in one transaction.
// n.TagIDs must already be validated against the owner's tags.
func (s *Store) CreateNote(ctx context.Context, n *domain.Note) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notes (id, user_id, title, content, collection_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID,
		n.UserID,
		n.Title,
		n.Content,
		nullString(n.CollectionID),
		formatTime(n.CreatedAt),
		formatTime(n.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	if len(n.TagIDs) > 0 {
		if err := replaceEntityTags(ctx, tx, "note_tags", "note_id", n.ID, n.TagIDs, formatTime(n.CreatedAt)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	note := *n
	s.indexAsync("index note", func(ctx context.Context) error {
		return s.indexer.IndexNote(ctx, &note)
	})
	return nil
}

// GetNoteByIDAndUser retrieves a note scoped to its owner, with tag IDs loaded
// fresh from the association table.
func (s *Store) GetNoteByIDAndUser(ctx context.Context, noteID, userID string) (*domain.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ? AND user_id = ?`, noteID, userID)

	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("note not found")
	}
	if err != nil {
		return nil, err
	}

	n.TagIDs, err = s.loadEntityTagIDs(ctx, "note_tags", "note_id", n.ID)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotesByUser returns a user's notes, newest first, optionally narrowed to
// one collection.
func (s *Store) ListNotesByUser(ctx context.Context, userID, collectionID string) ([]*domain.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = ?`
	args := []any{userID}

	if collectionID != "" {
		query += ` AND collection_id = ?`
		args = append(args, collectionID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*domain.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachNoteTags(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// attachNoteTags loads tag associations for a batch of notes in one query.
func (s *Store) attachNoteTags(ctx context.Context, notes []*domain.Note) error {
	if len(notes) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Note, len(notes))
	args := make([]any, 0, len(notes))
	for _, n := range notes {
		n.TagIDs = []string{}
		byID[n.ID] = n
		args = append(args, n.ID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT nt.note_id, nt.tag_id FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
		WHERE nt.note_id IN (`+placeholders(len(notes))+`)
		ORDER BY t.title ASC`, args...)
	if err != nil {
		return fmt.Errorf("query note_tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var noteID, tagID string
		if err := rows.Scan(&noteID, &tagID); err != nil {
			return err
		}
		if n, ok := byID[noteID]; ok {
			n.TagIDs = append(n.TagIDs, tagID)
		}
	}
	return rows.Err()
}

// UpdateNote rewrites a note's scalar fields and, when replaceTags is set, its
// tag associations — all in one transaction. Returns store.ErrNotFound if the
// note is absent or owned by another user.
func (s *Store) UpdateNote(ctx context.Context, n *domain.Note, replaceTags bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE notes SET title = ?, content = ?, collection_id = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		n.Title,
		n.Content,
		nullString(n.CollectionID),
		formatTime(n.UpdatedAt),
		n.ID,
		n.UserID,
	)
	if err != nil {
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrNotFound.WithMessage("note not found")
	}

	if replaceTags {
		if err := replaceEntityTags(ctx, tx, "note_tags", "note_id", n.ID, n.TagIDs, formatTime(n.UpdatedAt)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	note := *n
	s.indexAsync("index note", func(ctx context.Context) error {
		return s.indexer.IndexNote(ctx, &note)
	})
	return nil
}

// DeleteNote removes a note scoped to its owner. Association rows cascade.
func (s *Store) DeleteNote(ctx context.Context, noteID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`, noteID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("note not found")
	}

	s.indexAsync("delete note", func(ctx context.Context) error {
		return s.indexer.DeleteNote(ctx, noteID)
	})
	return nil
}

// ListAllNotes streams every note in the store, used for search reindexing.
func (s *Store) ListAllNotes(ctx context.Context) ([]*domain.Note, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+noteColumns+` FROM notes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*domain.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}
