package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/task"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type taskRepositoryImpl struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.TaskRepository {
	return &taskRepositoryImpl{db: db}
}

const taskSelect = `
	SELECT t.id, t.title, t.description, t.assignee_id, COALESCE(t.creator_id::text, ''), t.priority,
		t.status, t.due_date, t.started_at, t.completed_at, t.reviewed_at, t.completion_notes,
		t.rejection_notes, t.reference_links, t.photo_paths, t.created_at, t.updated_at,
		e.full_name, e.user_id, COALESCE(ce.full_name, '')
	FROM tasks t
	JOIN employees e ON e.id = t.assignee_id
	LEFT JOIN employees ce ON ce.user_id = t.creator_id`

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.AssigneeID,
		&t.CreatorID,
		&t.Priority,
		&t.Status,
		&t.DueDate,
		&t.StartedAt,
		&t.CompletedAt,
		&t.ReviewedAt,
		&t.CompletionNotes,
		&t.RejectionNotes,
		&t.References,
		&t.PhotoPaths,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.AssigneeName,
		&t.AssigneeUserID,
		&t.CreatorName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return task.Task{}, task.ErrTaskNotFound
	}
	return t, err
}

func (r *taskRepositoryImpl) Create(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tasks (title, description, assignee_id, creator_id, priority, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		t.Title,
		t.Description,
		t.AssigneeID,
		nullIfEmpty(t.CreatorID),
		t.Priority,
		task.StatusNotStarted,
		t.DueDate,
	).Scan(&id)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *taskRepositoryImpl) GetByID(ctx context.Context, id string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	t, err := scanTask(q.QueryRow(ctx, taskSelect+" WHERE t.id = $1", id))
	if err != nil && !errors.Is(err, task.ErrTaskNotFound) {
		return task.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return t, err
}

// List filters tasks. today is the office-local date used for the overdue filter.
func (r *taskRepositoryImpl) List(ctx context.Context, filter task.TaskFilter, today time.Time) ([]task.Task, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	add := func(cond string, value any) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, value)
		argIdx++
	}

	if filter.AssigneeID != nil && *filter.AssigneeID != "" {
		add("t.assignee_id = $%d", *filter.AssigneeID)
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(t.title ILIKE $%d OR e.full_name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		add("t.status = $%d", *filter.Status)
	}
	if filter.Priority != nil && *filter.Priority != "" {
		add("t.priority = $%d", *filter.Priority)
	}
	if filter.Overdue != nil {
		cond := "(t.due_date < $%d AND t.status IN ('not_started', 'in_progress'))"
		if !*filter.Overdue {
			cond = "(t.due_date IS NULL OR t.due_date >= $%d OR t.status NOT IN ('not_started', 'in_progress'))"
		}
		add(cond, today)
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM tasks t JOIN employees e ON e.id = t.assignee_id WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	validSortColumns := map[string]string{
		"created_at": "t.created_at",
		"due_date":   "t.due_date",
		"priority":   "array_position(ARRAY['low','medium','high','urgent']::text[], t.priority::text)",
		"status":     "t.status",
	}
	sortColumn, ok := validSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "t.created_at"
	}
	sortOrder := "DESC"
	if strings.ToUpper(filter.SortOrder) == "ASC" {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY %s %s NULLS LAST, t.id
		LIMIT $%d OFFSET $%d`,
		taskSelect, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, total, nil
}

func (r *taskRepositoryImpl) Update(ctx context.Context, req task.UpdateTaskRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := []string{}
	args := []any{}
	argIdx := 1

	set := func(column string, value any) {
		updates = append(updates, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.Title != nil {
		set("title", strings.TrimSpace(*req.Title))
	}
	if req.Description != nil {
		set("description", nullIfEmpty(*req.Description))
	}
	if req.AssigneeID != nil {
		set("assignee_id", *req.AssigneeID)
	}
	if req.Priority != nil {
		set("priority", *req.Priority)
	}
	if req.DueDate != nil {
		// An empty due_date clears it.
		set("due_date", req.Due)
	}

	if len(updates) == 0 {
		return nil
	}
	updates = append(updates, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $%d", strings.Join(updates, ", "), argIdx)
	args = append(args, req.ID)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

// Transition writes the lifecycle fields of t, guarded by the expected current status.
func (r *taskRepositoryImpl) Transition(ctx context.Context, id string, from task.Status, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tasks
		SET status = $1, started_at = $2, completed_at = $3, reviewed_at = $4,
			completion_notes = $5, rejection_notes = $6, reference_links = $7, photo_paths = $8,
			updated_at = NOW()
		WHERE id = $9 AND status = $10
	`

	references := t.References
	if references == nil {
		references = []string{}
	}
	photos := t.PhotoPaths
	if photos == nil {
		photos = []string{}
	}

	tag, err := q.Exec(ctx, query,
		t.Status,
		t.StartedAt,
		t.CompletedAt,
		t.ReviewedAt,
		t.CompletionNotes,
		t.RejectionNotes,
		references,
		photos,
		id,
		from,
	)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to transition task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return task.Task{}, err
		}
		return task.Task{}, task.ErrTaskStatusChanged
	}

	return r.GetByID(ctx, id)
}
