package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Add appends a field error.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns nil when no field errors were collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func IsValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidPhoneNumber accepts an optional leading '+' followed by 10-15 digits.
// Spaces and dashes are ignored.
func IsValidPhoneNumber(phone string) bool {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	phone = strings.TrimPrefix(phone, "+")

	if len(phone) < 10 || len(phone) > 15 {
		return false
	}
	return IsNumeric(phone)
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

var employeeCodeRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{1,19}$`)

func IsValidEmployeeCode(code string) bool {
	return employeeCodeRegex.MatchString(code)
}

func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func IsValidLongitude(lon float64) bool {
	return lon >= -180 && lon <= 180
}

// IsValidDateTime checks if a string is a valid ISO8601 timestamp.
// Accepts formats like: "2024-01-15T10:30:00Z" or "2024-01-15T10:30:00+05:30"
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, dateTimeStr)
	if err == nil {
		return t, true
	}

	t, err = time.Parse(time.RFC3339Nano, dateTimeStr)
	if err == nil {
		return t, true
	}

	return time.Time{}, false
}

// IsValidClock checks a HH:MM wall-clock string.
func IsValidClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// ValidatePagination checks page and limit and fills in defaults
// (page 1, limit 20). Limit is capped at 100.
func ValidatePagination(errs *ValidationErrors, page, limit *int) {
	if *page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if *page == 0 {
		*page = 1
	}
	if *limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if *limit == 0 {
		*limit = 20
	}
	if *limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
}

// ValidateSort checks sort_by against allowed fields and sort_order against
// asc/desc. Empty values fall back to defaultField and desc.
func ValidateSort(errs *ValidationErrors, sortBy, sortOrder *string, allowed []string, defaultField string) {
	if *sortBy == "" {
		*sortBy = defaultField
	} else if !IsInSlice(*sortBy, allowed) {
		errs.Add("sort_by", "sort_by must be one of: "+strings.Join(allowed, ", "))
	}

	if *sortOrder == "" {
		*sortOrder = "desc"
	} else {
		*sortOrder = strings.ToLower(*sortOrder)
		if *sortOrder != "asc" && *sortOrder != "desc" {
			errs.Add("sort_order", "sort_order must be one of: asc, desc")
		}
	}
}

// ValidateOptionalDate checks a YYYY-MM-DD value when it is set.
func ValidateOptionalDate(errs *ValidationErrors, field string, value *string) {
	if value == nil || *value == "" {
		return
	}
	if _, ok := IsValidDate(*value); !ok {
		errs.Add(field, field+" must be in YYYY-MM-DD format")
	}
}

// ValidateOptionalEnum checks value against allowed when it is set.
func ValidateOptionalEnum(errs *ValidationErrors, field string, value *string, allowed []string) {
	if value == nil || *value == "" {
		return
	}
	if !IsInSlice(*value, allowed) {
		errs.Add(field, field+" must be one of: "+strings.Join(allowed, ", "))
	}
}
