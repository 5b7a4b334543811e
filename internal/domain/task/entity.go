package task

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var validPriorities = []string{string(PriorityLow), string(PriorityMedium), string(PriorityHigh), string(PriorityUrgent)}

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusShelved    Status = "shelved"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
)

var validStatuses = []string{
	string(StatusNotStarted), string(StatusInProgress), string(StatusCompleted),
	string(StatusShelved), string(StatusAccepted), string(StatusRejected),
}

// Actor is who drives a transition.
type Actor string

const (
	ActorAssignee Actor = "assignee"
	ActorAdmin    Actor = "admin"
)

type transition struct {
	to    Status
	actor Actor
}

var transitions = map[Status][]transition{
	StatusNotStarted: {{StatusInProgress, ActorAssignee}, {StatusShelved, ActorAdmin}},
	StatusInProgress: {{StatusCompleted, ActorAssignee}, {StatusShelved, ActorAdmin}},
	StatusCompleted:  {{StatusAccepted, ActorAdmin}, {StatusRejected, ActorAdmin}},
	StatusShelved:    {{StatusNotStarted, ActorAdmin}},
}

// CanTransition reports whether actor may move a task from one status to another.
func CanTransition(from, to Status, actor Actor) bool {
	for _, t := range transitions[from] {
		if t.to == to && t.actor == actor {
			return true
		}
	}
	return false
}

// IsTerminal reports statuses with no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

type Task struct {
	ID              string
	Title           string
	Description     *string
	AssigneeID      string
	CreatorID       string
	Priority        Priority
	Status          Status
	DueDate         *time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
	ReviewedAt      *time.Time
	CompletionNotes *string
	RejectionNotes  *string
	References      []string
	PhotoPaths      []string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined from employees
	AssigneeName   string
	AssigneeUserID string
	CreatorName    string
}

// IsOverdue is derived: past its due date and still open. Completed tasks
// awaiting review are not overdue.
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	switch t.Status {
	case StatusNotStarted, StatusInProgress:
		due := time.Date(t.DueDate.Year(), t.DueDate.Month(), t.DueDate.Day(), 23, 59, 59, 0, now.Location())
		return now.After(due)
	}
	return false
}
