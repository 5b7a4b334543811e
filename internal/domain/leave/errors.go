package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request has already been approved or rejected")
	ErrOverlappingLeaveRequest      = errors.New("leave request overlaps an existing pending or approved request")
	ErrNotLeaveRequestOwner         = errors.New("leave request belongs to another employee")
	ErrInvalidDocumentType          = errors.New("invalid document type: only pdf, jpg, jpeg, png allowed")
	ErrDocumentTooLarge             = errors.New("document size must not exceed 5MB")
)
