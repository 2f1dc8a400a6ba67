package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskdeckapp/taskdeck-server/internal/domain"
	"github.com/taskdeckapp/taskdeck-server/internal/store"
)

// taskColumns is the ordered list of columns selected in task queries.
// Must match the scan order in scanTask.
const taskColumns = `id, user_id, title, description, status, priority, due_date, collection_id, created_at, updated_at`

// scanTask scans a sql.Row (or sql.Rows via its Scan method) into a domain.Task.
// TagIDs are not populated here; callers load associations separately.
func scanTask(scanner interface{ Scan(dest ...any) error }) (*domain.Task, error) {
	var t domain.Task

	var (
		dueDate      sql.NullString
		collectionID sql.NullString
		createdAt    string
		updatedAt    string
	)

	err := scanner.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&dueDate,
		&collectionID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.DueDate, err = parseNullableTime(dueDate)
	if err != nil {
		return nil, err
	}
	t.CollectionID = collectionID.String
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

// CreateTask inserts a task and its tag associations in one transaction.
// t.TagIDs must already be validated against the owner's tags.
func (s *Store) CreateTask(ctx context.Context, t *domain.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, description, status, priority, due_date, collection_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.UserID,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		nullTimeString(t.DueDate),
		nullString(t.CollectionID),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	if len(t.TagIDs) > 0 {
		if err := replaceEntityTags(ctx, tx, "task_tags", "task_id", t.ID, t.TagIDs, formatTime(t.CreatedAt)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	task := *t
	s.indexAsync("index task", func(ctx context.Context) error {
		return s.indexer.IndexTask(ctx, &task)
	})
	return nil
}

// GetTaskByIDAndUser retrieves a task scoped to its owner, with tag IDs loaded
// fresh from the association table.
func (s *Store) GetTaskByIDAndUser(ctx context.Context, taskID, userID string) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("task not found")
	}
	if err != nil {
		return nil, err
	}

	t.TagIDs, err = s.loadEntityTagIDs(ctx, "task_tags", "task_id", t.ID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasksByUser returns a user's tasks, newest first, narrowed by filter.
func (s *Store) ListTasksByUser(ctx context.Context, userID string, filter domain.TaskFilter) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{userID}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, string(filter.Priority))
	}
	if filter.CollectionID != "" {
		query += ` AND collection_id = ?`
		args = append(args, filter.CollectionID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachTaskTags(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// attachTaskTags loads tag associations for a batch of tasks in one query.
func (s *Store) attachTaskTags(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Task, len(tasks))
	args := make([]any, 0, len(tasks))
	for _, t := range tasks {
		t.TagIDs = []string{}
		byID[t.ID] = t
		args = append(args, t.ID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT tt.task_id, tt.tag_id FROM task_tags tt
		JOIN tags t ON t.id = tt.tag_id
		WHERE tt.task_id IN (`+placeholders(len(tasks))+`)
		ORDER BY t.title ASC`, args...)
	if err != nil {
		return fmt.Errorf("query task_tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, tagID string
		if err := rows.Scan(&taskID, &tagID); err != nil {
			return err
		}
		if t, ok := byID[taskID]; ok {
			t.TagIDs = append(t.TagIDs, tagID)
		}
	}
	return rows.Err()
}

// UpdateTask rewrites a task's scalar fields and, when replaceTags is set, its
// tag associations — all in one transaction so a partial update can never be
// observed. Returns store.ErrNotFound if the task is absent or owned by
// another user.
func (s *Store) UpdateTask(ctx context.Context, t *domain.Task, replaceTags bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, collection_id = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		nullTimeString(t.DueDate),
		nullString(t.CollectionID),
		formatTime(t.UpdatedAt),
		t.ID,
		t.UserID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("task not found")
	}

	if replaceTags {
		if err := replaceEntityTags(ctx, tx, "task_tags", "task_id", t.ID, t.TagIDs, formatTime(t.UpdatedAt)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	task := *t
	s.indexAsync("index task", func(ctx context.Context) error {
		return s.indexer.IndexTask(ctx, &task)
	})
	return nil
}

// DeleteTask removes a task scoped to its owner. Association rows cascade.
func (s *Store) DeleteTask(ctx context.Context, taskID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("task not found")
	}

	s.indexAsync("delete task", func(ctx context.Context) error {
		return s.indexer.DeleteTask(ctx, taskID)
	})
	return nil
}

// ListAllTasks streams every task in the store, used for search reindexing.
func (s *Store) ListAllTasks(ctx context.Context) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
