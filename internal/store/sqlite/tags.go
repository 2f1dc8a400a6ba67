package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskdeckapp/taskdeck-server/internal/domain"
	"github.com/taskdeckapp/taskdeck-server/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, user_id, title, color, created_at, updated_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Color,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTag inserts a new tag.
// Returns store.ErrAlreadyExists when the user already has a tag with this title.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, user_id, title, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.UserID,
		t.Title,
		t.Color,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("tag title already in use")
		}
		return err
	}
	return nil
}

// GetTagByIDAndUser retrieves a tag scoped to its owner. Ownership is part of
// the lookup predicate, so another user's tag is indistinguishable from a
// missing one.
func (s *Store) GetTagByIDAndUser(ctx context.Context, tagID, userID string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ? AND user_id = ?`, tagID, userID)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("tag not found")
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTagsByUser returns all of a user's tags ordered by title.
func (s *Store) ListTagsByUser(ctx context.Context, userID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE user_id = ? ORDER BY title ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}

// GetTagsByIDsAndUser returns the user's tags whose IDs are in the given set,
// in a single batched query. IDs that do not exist or belong to another user
// are silently absent from the result; callers compare counts to detect that.
// An empty input returns an empty slice without touching the database.
func (s *Store) GetTagsByIDsAndUser(ctx context.Context, userID string, tagIDs []string) ([]*domain.Tag, error) {
	if len(tagIDs) == 0 {
		return []*domain.Tag{}, nil
	}

	args := make([]any, 0, len(tagIDs)+1)
	args = append(args, userID)
	for _, id := range tagIDs {
		args = append(args, id)
	}

	query := `SELECT ` + tagColumns + ` FROM tags WHERE user_id = ? AND id IN (` + placeholders(len(tagIDs)) + `)`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tags by ids: %w", err)
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}

// UpdateTag updates a tag's title and color, scoped to its owner.
// Returns store.ErrNotFound if absent or owned by another user, and
// store.ErrAlreadyExists on a title collision with another of the user's tags.
func (s *Store) UpdateTag(ctx context.Context, t *domain.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tags SET title = ?, color = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		t.Title,
		t.Color,
		formatTime(t.UpdatedAt),
		t.ID,
		t.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("tag title already in use")
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("tag not found")
	}
	return nil
}

// DeleteTag removes a tag scoped to its owner. Association rows cascade;
// tagged tasks, notes, and collections are untouched.
func (s *Store) DeleteTag(ctx context.Context, tagID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tags WHERE id = ? AND user_id = ?`, tagID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("tag not found")
	}
	return nil
}

// replaceEntityTags rewrites an entity's association rows inside the caller's
// transaction: delete the existing set, insert the new one. Runs as part of
// the same commit as the entity's scalar writes.
func replaceEntityTags(ctx context.Context, tx *sql.Tx, table, entityCol, entityID string, tagIDs []string, now string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE `+entityCol+` = ?`, entityID); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}

	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO `+table+` (`+entityCol+`, tag_id, created_at) VALUES (?, ?, ?)`,
			entityID, tagID, now)
		if err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}

	return nil
}

// loadEntityTagIDs returns the tag IDs associated with one entity, sorted by
// the tag's title for stable output.
func (s *Store) loadEntityTagIDs(ctx context.Context, table, entityCol, entityID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT et.tag_id FROM `+table+` et
		JOIN tags t ON t.id = et.tag_id
		WHERE et.`+entityCol+` = ?
		ORDER BY t.title ASC`, entityID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	tagIDs := []string{}
	for rows.Next() {
		var tagID string
		if err := rows.Scan(&tagID); err != nil {
			return nil, err
		}
		tagIDs = append(tagIDs, tagID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tagIDs, nil
}
