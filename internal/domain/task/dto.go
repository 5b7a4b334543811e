package task

import (
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
)

const (
	maxPhotos    = 5
	maxPhotoSize = 10 << 20
)

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	AssigneeID  string  `json:"assignee_id"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date,omitempty"` // YYYY-MM-DD

	Due *time.Time `json:"-"`
}

func (r *CreateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		errs.Add("title", "title is required")
	} else if len(r.Title) > 200 {
		errs.Add("title", "title must not exceed 200 characters")
	}

	if validator.IsEmpty(r.AssigneeID) {
		errs.Add("assignee_id", "assignee_id is required")
	} else if !validator.IsValidUUID(r.AssigneeID) {
		errs.Add("assignee_id", "assignee_id must be a valid UUID")
	}

	if r.Priority == "" {
		r.Priority = string(PriorityMedium)
	}
	validator.ValidateOptionalEnum(&errs, "priority", &r.Priority, validPriorities)

	r.Due = parseDue(&errs, r.DueDate)

	return errs.Err()
}

type UpdateTaskRequest struct {
	ID          string  `json:"-"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`

	Due *time.Time `json:"-"`
}

func (r *UpdateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Title != nil && validator.IsEmpty(*r.Title) {
		errs.Add("title", "title must not be empty")
	}
	if r.AssigneeID != nil && !validator.IsValidUUID(*r.AssigneeID) {
		errs.Add("assignee_id", "assignee_id must be a valid UUID")
	}
	validator.ValidateOptionalEnum(&errs, "priority", r.Priority, validPriorities)
	r.Due = parseDue(&errs, r.DueDate)

	return errs.Err()
}

// CompleteTaskRequest is the assignee's hand-in.
type CompleteTaskRequest struct {
	ID          string                  `json:"-"`
	Notes       *string                 `json:"notes,omitempty"`
	References  []string                `json:"references,omitempty"`
	Files       []multipart.File        `json:"-"`
	FileHeaders []*multipart.FileHeader `json:"-"`
}

func (r *CompleteTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Notes != nil && len(*r.Notes) > 2000 {
		errs.Add("notes", "notes must not exceed 2000 characters")
	}
	if len(r.References) > 20 {
		errs.Add("references", "at most 20 references may be attached")
	}
	for _, ref := range r.References {
		if validator.IsEmpty(ref) {
			errs.Add("references", "references must not contain empty entries")
			break
		}
	}

	if len(r.FileHeaders) > maxPhotos {
		errs.Add("photos", ErrTooManyPhotos.Error())
	}
	for _, fh := range r.FileHeaders {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			errs.Add("photos", ErrInvalidPhotoType.Error())
			break
		}
		if fh.Size > maxPhotoSize {
			errs.Add("photos", "each photo must not exceed 10MB")
			break
		}
	}

	return errs.Err()
}

type RejectTaskRequest struct {
	ID    string `json:"-"`
	Notes string `json:"notes"`
}

func (r *RejectTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if validator.IsEmpty(r.Notes) {
		errs.Add("notes", ErrRejectionNotesEmpty.Error())
	}

	return errs.Err()
}

type TaskFilter struct {
	AssigneeID *string `json:"assignee_id,omitempty"`
	Search     *string `json:"search,omitempty"`
	Status     *string `json:"status,omitempty"`
	Priority   *string `json:"priority,omitempty"`
	Overdue    *bool   `json:"overdue,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"` // created_at, due_date, priority, status
	SortOrder string `json:"sort_order"`
}

func (f *TaskFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.ValidatePagination(&errs, &f.Page, &f.Limit)
	validator.ValidateOptionalEnum(&errs, "status", f.Status, validStatuses)
	validator.ValidateOptionalEnum(&errs, "priority", f.Priority, validPriorities)
	validator.ValidateSort(&errs, &f.SortBy, &f.SortOrder, []string{"created_at", "due_date", "priority", "status"}, "created_at")

	return errs.Err()
}

type TaskResponse struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     *string  `json:"description,omitempty"`
	AssigneeID      string   `json:"assignee_id"`
	AssigneeName    string   `json:"assignee_name,omitempty"`
	CreatorID       string   `json:"creator_id"`
	CreatorName     string   `json:"creator_name,omitempty"`
	Priority        string   `json:"priority"`
	Status          string   `json:"status"`
	IsOverdue       bool     `json:"is_overdue"`
	DueDate         *string  `json:"due_date,omitempty"`
	StartedAt       *string  `json:"started_at,omitempty"`
	CompletedAt     *string  `json:"completed_at,omitempty"`
	ReviewedAt      *string  `json:"reviewed_at,omitempty"`
	CompletionNotes *string  `json:"completion_notes,omitempty"`
	RejectionNotes  *string  `json:"rejection_notes,omitempty"`
	References      []string `json:"references"`
	PhotoURLs       []string `json:"photo_urls"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

type ListTaskResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Showing    string         `json:"showing"`
	Tasks      []TaskResponse `json:"tasks"`
}

func parseDue(errs *validator.ValidationErrors, s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	d, ok := validator.IsValidDate(*s)
	if !ok {
		errs.Add("due_date", "due_date must be in YYYY-MM-DD format")
		return nil
	}
	return &d
}
