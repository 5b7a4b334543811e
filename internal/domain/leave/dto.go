package leave

import (
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
)

const maxDocumentSize = 5 << 20

type CreateLeaveRequestRequest struct {
	LeaveType   string                `json:"leave_type"`
	Subject     string                `json:"subject"`
	Description *string               `json:"description,omitempty"`
	StartDate   string                `json:"start_date"`
	EndDate     string                `json:"end_date"`
	File        multipart.File        `json:"-"`
	FileHeader  *multipart.FileHeader `json:"-"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveType) {
		errs.Add("leave_type", "leave_type is required")
	} else {
		validator.ValidateOptionalEnum(&errs, "leave_type", &r.LeaveType, validTypes)
	}

	r.Subject = strings.TrimSpace(r.Subject)
	if r.Subject == "" {
		errs.Add("subject", "subject is required")
	} else if len(r.Subject) > 200 {
		errs.Add("subject", "subject must not exceed 200 characters")
	}

	if r.Description != nil && len(*r.Description) > 2000 {
		errs.Add("description", "description must not exceed 2000 characters")
	}

	var startOK, endOK bool
	if r.Start, startOK = validator.IsValidDate(r.StartDate); !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	if r.End, endOK = validator.IsValidDate(r.EndDate); !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK && r.End.Before(r.Start) {
		errs.Add("end_date", "end_date must be on or after start_date")
	}

	if r.FileHeader != nil {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if !validator.IsInSlice(ext, []string{".pdf", ".jpg", ".jpeg", ".png"}) {
			errs.Add("document", ErrInvalidDocumentType.Error())
		} else if r.FileHeader.Size > maxDocumentSize {
			errs.Add("document", ErrDocumentTooLarge.Error())
		}
	}

	return errs.Err()
}

type RejectLeaveRequestRequest struct {
	ID      string `json:"-"`
	Comment string `json:"comment"`
}

func (r *RejectLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if validator.IsEmpty(r.Comment) {
		errs.Add("comment", "a rejection comment is required")
	} else if len(r.Comment) > 1000 {
		errs.Add("comment", "comment must not exceed 1000 characters")
	}

	return errs.Err()
}

type LeaveRequestFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Search     *string `json:"search,omitempty"`
	Status     *string `json:"status,omitempty"`
	LeaveType  *string `json:"leave_type,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // requests ending on/after
	EndDate    *string `json:"end_date,omitempty"`   // requests starting on/before

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"` // created_at, start_date, employee_name, status
	SortOrder string `json:"sort_order"`
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.ValidatePagination(&errs, &f.Page, &f.Limit)
	validator.ValidateOptionalEnum(&errs, "status", f.Status, validStatuses)
	validator.ValidateOptionalEnum(&errs, "leave_type", f.LeaveType, validTypes)
	validator.ValidateOptionalDate(&errs, "start_date", f.StartDate)
	validator.ValidateOptionalDate(&errs, "end_date", f.EndDate)
	validator.ValidateSort(&errs, &f.SortBy, &f.SortOrder, []string{"created_at", "start_date", "employee_name", "status"}, "created_at")

	return errs.Err()
}

type LeaveRequestResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	EmployeeName     string  `json:"employee_name,omitempty"`
	EmployeeCode     string  `json:"employee_code,omitempty"`
	LeaveType        string  `json:"leave_type"`
	Subject          string  `json:"subject"`
	Description      *string `json:"description,omitempty"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	TotalDays        int     `json:"total_days"`
	Status           string  `json:"status"`
	ApproverID       *string `json:"approver_id,omitempty"`
	ApproverName     *string `json:"approver_name,omitempty"`
	DecidedAt        *string `json:"decided_at,omitempty"`
	RejectionComment *string `json:"rejection_comment,omitempty"`
	HasDocument      bool    `json:"has_document"`
	DocumentURL      *string `json:"document_url,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type ListLeaveRequestResponse struct {
	TotalCount    int64                  `json:"total_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalPages    int                    `json:"total_pages"`
	Showing       string                 `json:"showing"`
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
}
