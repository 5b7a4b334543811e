package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// approver_id is a user id; the name comes from that user's employee profile.
const leaveRequestSelect = `
	SELECT l.id, l.employee_id, l.leave_type, l.subject, l.description, l.start_date, l.end_date,
		l.status, l.approver_id, l.decided_at, l.rejection_comment, l.has_document, l.document_path,
		l.created_at, l.updated_at, e.full_name, e.employee_code, ae.full_name
	FROM leave_requests l
	JOIN employees e ON e.id = l.employee_id
	LEFT JOIN employees ae ON ae.user_id = l.approver_id`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var l leave.LeaveRequest
	err := row.Scan(
		&l.ID,
		&l.EmployeeID,
		&l.LeaveType,
		&l.Subject,
		&l.Description,
		&l.StartDate,
		&l.EndDate,
		&l.Status,
		&l.ApproverID,
		&l.DecidedAt,
		&l.RejectionComment,
		&l.HasDocument,
		&l.DocumentPath,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.EmployeeName,
		&l.EmployeeCode,
		&l.ApproverName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return l, err
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			employee_id, leave_type, subject, description, start_date, end_date,
			status, has_document, document_path
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		req.EmployeeID,
		req.LeaveType,
		req.Subject,
		req.Description,
		req.StartDate,
		req.EndDate,
		leave.StatusPending,
		req.DocumentPath != nil,
		req.DocumentPath,
	).Scan(&id)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLeaveRequest(q.QueryRow(ctx, leaveRequestSelect+" WHERE l.id = $1", id))
	if err != nil && !errors.Is(err, leave.ErrLeaveRequestNotFound) {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return l, err
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	add := func(cond string, value any) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, value)
		argIdx++
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		add("l.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(e.full_name ILIKE $%d OR e.employee_code ILIKE $%d OR l.subject ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		add("l.status = $%d", *filter.Status)
	}
	if filter.LeaveType != nil && *filter.LeaveType != "" {
		add("l.leave_type = $%d", *filter.LeaveType)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		add("l.end_date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		add("l.start_date <= $%d::date", *filter.EndDate)
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leave_requests l JOIN employees e ON e.id = l.employee_id WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	validSortColumns := map[string]string{
		"created_at":    "l.created_at",
		"start_date":    "l.start_date",
		"employee_name": "e.full_name",
		"status":        "l.status",
	}
	sortColumn, ok := validSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "l.created_at"
	}
	sortOrder := "DESC"
	if strings.ToUpper(filter.SortOrder) == "ASC" {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY %s %s, l.id
		LIMIT $%d OFFSET $%d`,
		leaveRequestSelect, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		l, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return requests, total, nil
}

func (r *leaveRequestRepositoryImpl) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
				AND status IN ('pending', 'approved')
				AND start_date <= $3 AND end_date >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	return exists, nil
}

// Decide only touches pending rows, so two admins racing on the same request
// cannot both win.
func (r *leaveRequestRepositoryImpl) Decide(ctx context.Context, id string, status leave.Status, approverID string, comment *string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1, approver_id = $2, decided_at = NOW(), rejection_comment = $3, updated_at = NOW()
		WHERE id = $4 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, status, approverID, comment, id)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to decide leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	return r.GetByID(ctx, id)
}

func (r *leaveRequestRepositoryImpl) DeletePending(ctx context.Context, id, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1 AND employee_id = $2 AND status = 'pending'`, id, employeeID)
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.EmployeeID != employeeID {
		return leave.ErrNotLeaveRequestOwner
	}
	return leave.ErrLeaveRequestAlreadyProcessed
}

func (r *leaveRequestRepositoryImpl) ApprovedEmployeeIDsOn(ctx context.Context, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT DISTINCT employee_id::text
		FROM leave_requests
		WHERE status = 'approved' AND start_date <= $1 AND end_date >= $1
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees on leave: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan employees on leave: %w", err)
	}
	return ids, nil
}
