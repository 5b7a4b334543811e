package task

import "errors"

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrInvalidTransition   = errors.New("task cannot move to that status from its current status")
	ErrNotTaskAssignee     = errors.New("task is assigned to another employee")
	ErrAssigneeNotFound    = errors.New("assignee not found")
	ErrAssigneeInactive    = errors.New("assignee is inactive")
	ErrTaskStatusChanged   = errors.New("task status changed, reload and try again")
	ErrTaskNotEditable     = errors.New("task can only be edited before it is completed")
	ErrInvalidPhotoType    = errors.New("invalid photo type: only jpg, jpeg, png allowed")
	ErrTooManyPhotos       = errors.New("at most 5 photos may be attached")
	ErrRejectionNotesEmpty = errors.New("rejection notes are required")
)
