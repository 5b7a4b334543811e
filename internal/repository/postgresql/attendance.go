package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceSelect = `
	SELECT a.id, a.employee_id, a.date, a.check_in, a.check_out,
		a.check_in_lat, a.check_in_lon, a.check_out_lat, a.check_out_lon,
		a.check_in_distance, a.check_out_distance, a.status, a.method,
		a.proof_photo_path, a.notes, a.created_at, a.updated_at,
		e.full_name, e.employee_code, e.department
	FROM attendances a
	JOIN employees e ON e.id = a.employee_id`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Date,
		&a.CheckIn,
		&a.CheckOut,
		&a.CheckInLatitude,
		&a.CheckInLongitude,
		&a.CheckOutLatitude,
		&a.CheckOutLongitude,
		&a.CheckInDistance,
		&a.CheckOutDistance,
		&a.Status,
		&a.Method,
		&a.ProofPhotoPath,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.EmployeeName,
		&a.EmployeeCode,
		&a.Department,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, err
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	records := []attendance.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return records, nil
}

// reload re-reads a row with the joined employee columns.
func (r *attendanceRepositoryImpl) reload(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.GetByID(ctx, id)
}

func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			employee_id, date, check_in, check_out, check_in_lat, check_in_lon,
			check_in_distance, status, method, proof_photo_path, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		a.EmployeeID,
		a.Date,
		a.CheckIn,
		a.CheckOut,
		a.CheckInLatitude,
		a.CheckInLongitude,
		a.CheckInDistance,
		a.Status,
		a.Method,
		a.ProofPhotoPath,
		a.Notes,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, "attendances_employee_date_key") {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return r.reload(ctx, id)
}

func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+" WHERE a.id = $1", id))
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, err
}

func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+" WHERE a.employee_id = $1 AND a.date = $2", employeeID, date))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by date: %w", err)
	}
	return &a, nil
}

func (r *attendanceRepositoryImpl) RecordCheckOut(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_out = $1, check_out_lat = $2, check_out_lon = $3, check_out_distance = $4,
			notes = COALESCE($5, notes), updated_at = NOW()
		WHERE id = $6 AND check_out IS NULL
	`

	tag, err := q.Exec(ctx, query, a.CheckOut, a.CheckOutLatitude, a.CheckOutLongitude, a.CheckOutDistance, a.Notes, a.ID)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to record check-out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}

	return r.reload(ctx, a.ID)
}

// Upsert inserts or replaces the record for (employee_id, date).
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (employee_id, date, check_in, check_out, status, method, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			status = EXCLUDED.status,
			method = EXCLUDED.method,
			notes = COALESCE(EXCLUDED.notes, attendances.notes),
			updated_at = NOW()
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query, a.EmployeeID, a.Date, a.CheckIn, a.CheckOut, a.Status, a.Method, a.Notes).Scan(&id)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return r.reload(ctx, id)
}

func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_in = $1, check_out = $2, status = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, a.CheckIn, a.CheckOut, a.Status, a.Notes, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
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
		add("a.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(e.full_name ILIKE $%d OR e.employee_code ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		add("a.date = $%d::date", *filter.Date)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		add("a.date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		add("a.date <= $%d::date", *filter.EndDate)
	}
	if filter.Status != nil && *filter.Status != "" {
		add("a.status = $%d", *filter.Status)
	}
	if filter.Method != nil && *filter.Method != "" {
		add("a.method = $%d", *filter.Method)
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM attendances a JOIN employees e ON e.id = a.employee_id WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	validSortColumns := map[string]string{
		"date":          "a.date",
		"employee_name": "e.full_name",
		"check_in":      "a.check_in",
		"check_out":     "a.check_out",
		"status":        "a.status",
	}
	sortColumn, ok := validSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "a.date"
	}
	sortOrder := "DESC"
	if strings.ToUpper(filter.SortOrder) == "ASC" {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY %s %s NULLS LAST, e.full_name, a.id
		LIMIT $%d OFFSET $%d`,
		attendanceSelect, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	records, err := collectAttendances(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *attendanceRepositoryImpl) ListRange(ctx context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, attendanceSelect+`
		WHERE a.date BETWEEN $1 AND $2
		ORDER BY a.date, e.full_name`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance range: %w", err)
	}
	defer rows.Close()

	return collectAttendances(rows)
}

func (r *attendanceRepositoryImpl) EmployeeIDsWithRecord(ctx context.Context, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT employee_id::text FROM attendances WHERE date = $1`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get recorded employees: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan recorded employees: %w", err)
	}
	return ids, nil
}

func (r *attendanceRepositoryImpl) BulkCreate(ctx context.Context, records []attendance.Attendance) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	q := GetQuerier(ctx, r.db)

	valueStrings := make([]string, 0, len(records))
	valueArgs := make([]any, 0, len(records)*5)
	for i, a := range records {
		base := i * 5
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5))
		valueArgs = append(valueArgs, a.EmployeeID, a.Date, a.Status, a.Method, a.Notes)
	}

	query := fmt.Sprintf(`
		INSERT INTO attendances (employee_id, date, status, method, notes)
		VALUES %s
		ON CONFLICT (employee_id, date) DO NOTHING
	`, strings.Join(valueStrings, ", "))

	tag, err := q.Exec(ctx, query, valueArgs...)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk create attendances: %w", err)
	}
	return tag.RowsAffected(), nil
}
