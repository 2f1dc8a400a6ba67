package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskdeckapp/taskdeck-server/internal/domain"
	"github.com/taskdeckapp/taskdeck-server/internal/store"
)

// collectionColumns is the ordered list of columns selected in collection queries.
// Must match the scan order in scanCollection.
const collectionColumns = `id, user_id, title, description, type, created_at, updated_at`

// scanCollection scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Collection. TagIDs are not populated here.
func scanCollection(scanner interface{ Scan(dest ...any) error }) (*domain.Collection, error) {
	var c domain.Collection

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&c.ID,
		&c.UserID,
		&c.Title,
		&c.Description,
		&c.Type,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateCollection inserts a collection and its tag associations in one
// transaction. Returns store.ErrAlreadyExists when the user already has a
// collection with this title.
func (s *Store) CreateCollection(ctx context.Context, c *domain.Collection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO collections (id, user_id, title, description, type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.UserID,
		c.Title,
		c.Description,
		string(c.Type),
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("collection title already in use")
		}
		return err
	}

	if len(c.TagIDs) > 0 {
		if err := replaceEntityTags(ctx, tx, "collection_tags", "collection_id", c.ID, c.TagIDs, formatTime(c.CreatedAt)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	coll := *c
	s.indexAsync("index collection", func(ctx context.Context) error {
		return s.indexer.IndexCollection(ctx, &coll)
	})
	return nil
}

// GetCollectionByIDAndUser retrieves a collection scoped to its owner, with
// tag IDs loaded fresh from the association table.
func (s *Store) GetCollectionByIDAndUser(ctx context.Context, collectionID, userID string) (*domain.Collection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE id = ? AND user_id = ?`, collectionID, userID)

	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("collection not found")
	}
	if err != nil {
		return nil, err
	}

	c.TagIDs, err = s.loadEntityTagIDs(ctx, "collection_tags", "collection_id", c.ID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCollectionByTitleAndUser retrieves a collection by title (case-insensitive)
// scoped to its owner. Used for duplicate-title checks.
func (s *Store) GetCollectionByTitleAndUser(ctx context.Context, title, userID string) (*domain.Collection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE title = ? AND user_id = ?`, title, userID)

	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("collection not found")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCollectionsByUser returns a user's collections ordered by title,
// optionally narrowed to one type.
func (s *Store) ListCollectionsByUser(ctx context.Context, userID string, typeFilter domain.CollectionType) ([]*domain.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE user_id = ?`
	args := []any{userID}

	if typeFilter != "" {
		query += ` AND type = ?`
		args = append(args, string(typeFilter))
	}
	query += ` ORDER BY title ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	collections := []*domain.Collection{}
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachCollectionTags(ctx, collections); err != nil {
		return nil, err
	}
	return collections, nil
}

// attachCollectionTags loads tag associations for a batch of collections in one query.
func (s *Store) attachCollectionTags(ctx context.Context, collections []*domain.Collection) error {
	if len(collections) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Collection, len(collections))
	args := make([]any, 0, len(collections))
	for _, c := range collections {
		c.TagIDs = []string{}
		byID[c.ID] = c
		args = append(args, c.ID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ct.collection_id, ct.tag_id FROM collection_tags ct
		JOIN tags t ON t.id = ct.tag_id
		WHERE ct.collection_id IN (`+placeholders(len(collections))+`)
		ORDER BY t.title ASC`, args...)
	if err != nil {
		return fmt.Errorf("query collection_tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var collectionID, tagID string
		if err := rows.Scan(&collectionID, &tagID); err != nil {
			return err
		}
		if c, ok := byID[collectionID]; ok {
			c.TagIDs = append(c.TagIDs, tagID)
		}
	}
	return rows.Err()
}

// UpdateCollection rewrites a collection's scalar fields and, when replaceTags
// is set, its tag associations — all in one transaction. Returns
// store.ErrNotFound if absent or owned by another user, and
// store.ErrAlreadyExists on a title collision.
func (s *Store) UpdateCollection(ctx context.Context, c *domain.Collection, replaceTags bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE collections SET title = ?, description = ?, type = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		c.Title,
		c.Description,
		string(c.Type),
		formatTime(c.UpdatedAt),
		c.ID,
		c.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("collection title already in use")
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("collection not found")
	}

	if replaceTags {
		if err := replaceEntityTags(ctx, tx, "collection_tags", "collection_id", c.ID, c.TagIDs, formatTime(c.UpdatedAt)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	coll := *c
	s.indexAsync("index collection", func(ctx context.Context) error {
		return s.indexer.IndexCollection(ctx, &coll)
	})
	return nil
}

// DeleteCollection removes a collection scoped to its owner. Tasks and notes
// filed under it survive with their collection reference cleared; association
// rows cascade.
func (s *Store) DeleteCollection(ctx context.Context, collectionID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM collections WHERE id = ? AND user_id = ?`, collectionID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("collection not found")
	}

	s.indexAsync("delete collection", func(ctx context.Context) error {
		return s.indexer.DeleteCollection(ctx, collectionID)
	})
	return nil
}

// ListAllCollections streams every collection in the store, used for search reindexing.
func (s *Store) ListAllCollections(ctx context.Context) ([]*domain.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+collectionColumns+` FROM collections`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	collections := []*domain.Collection{}
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return collections, nil
}
