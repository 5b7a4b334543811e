package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT e.id, e.user_id, e.employee_code, e.full_name, e.phone, e.department, e.position,
		e.work_mode, e.is_active, e.created_at, e.updated_at, u.email, u.role
	FROM employees e
	JOIN users u ON u.id = e.user_id`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.EmployeeCode,
		&e.FullName,
		&e.Phone,
		&e.Department,
		&e.Position,
		&e.WorkMode,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.Email,
		&e.Role,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, err
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg any) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, employeeSelect+" WHERE "+where, arg))
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, err
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, "e.id = $1", id)
}

func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return r.getOne(ctx, "e.user_id = $1", userID)
}

func (r *employeeRepositoryImpl) GetByEmployeeCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	return r.getOne(ctx, "e.employee_code = $1", employeeCode)
}

func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (user_id, employee_code, full_name, phone, department, position, work_mode, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	created := newEmployee
	err := q.QueryRow(ctx, query,
		newEmployee.UserID,
		newEmployee.EmployeeCode,
		newEmployee.FullName,
		newEmployee.Phone,
		newEmployee.Department,
		newEmployee.Position,
		newEmployee.WorkMode,
		newEmployee.IsActive,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "employees_employee_code_key") {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return created, nil
}

func (r *employeeRepositoryImpl) ExistsByCode(ctx context.Context, employeeCode string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM employees WHERE employee_code = $1 AND ($2::uuid IS NULL OR id <> $2::uuid))`,
		employeeCode, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee code: %w", err)
	}
	return exists, nil
}

// Update writes the employee-table fields of req. Email and role live on users.
func (r *employeeRepositoryImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := []string{}
	args := []any{}
	argIdx := 1

	set := func(column string, value any) {
		updates = append(updates, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.EmployeeCode != nil {
		set("employee_code", *req.EmployeeCode)
	}
	if req.FullName != nil {
		set("full_name", strings.TrimSpace(*req.FullName))
	}
	if req.Phone != nil {
		set("phone", nullIfEmpty(*req.Phone))
	}
	if req.Department != nil {
		set("department", nullIfEmpty(*req.Department))
	}
	if req.Position != nil {
		set("position", nullIfEmpty(*req.Position))
	}
	if req.WorkMode != nil {
		set("work_mode", *req.WorkMode)
	}
	if req.IsActive != nil {
		set("is_active", *req.IsActive)
	}

	if len(updates) == 0 {
		return nil
	}
	updates = append(updates, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d", strings.Join(updates, ", "), argIdx)
	args = append(args, id)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err, "employees_employee_code_key") {
			return employee.ErrEmployeeCodeExists
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepositoryImpl) SetActive(ctx context.Context, id string, active bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to set employee active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(e.full_name ILIKE $%d OR u.email ILIKE $%d OR e.employee_code ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("e.department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.Role != nil && *filter.Role != "" {
		conditions = append(conditions, fmt.Sprintf("u.role = $%d", argIdx))
		args = append(args, *filter.Role)
		argIdx++
	}
	if filter.WorkMode != nil && *filter.WorkMode != "" {
		conditions = append(conditions, fmt.Sprintf("e.work_mode = $%d", argIdx))
		args = append(args, *filter.WorkMode)
		argIdx++
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("e.is_active = $%d", argIdx))
		args = append(args, *filter.IsActive)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees e JOIN users u ON u.id = e.user_id WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	validSortColumns := map[string]string{
		"full_name":     "e.full_name",
		"employee_code": "e.employee_code",
		"department":    "e.department",
		"created_at":    "e.created_at",
	}
	sortColumn, ok := validSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "e.created_at"
	}
	sortOrder := "DESC"
	if strings.ToUpper(filter.SortOrder) == "ASC" {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY %s %s, e.id
		LIMIT $%d OFFSET $%d`,
		employeeSelect, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *employeeRepositoryImpl) GetActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, employeeSelect+" WHERE e.is_active = TRUE ORDER BY e.full_name")
	if err != nil {
		return nil, fmt.Errorf("failed to get active employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// GetAdminUserIDs returns the user ids of active administrators.
func (r *employeeRepositoryImpl) GetAdminUserIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT u.id
		FROM users u
		LEFT JOIN employees e ON e.user_id = u.id
		WHERE u.role = 'admin' AND COALESCE(e.is_active, TRUE)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin users: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan admin users: %w", err)
	}
	return ids, nil
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	employees := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

func nullIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
