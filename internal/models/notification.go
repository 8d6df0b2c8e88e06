package models

import (
	"time"

	"github.com/google/uuid"
)

const NotificationTaskAssigned = "task_assigned"

// Notification is an in-app message for one user.
type Notification struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	CustomerID uuid.UUID  `json:"customerID" db:"customer_id"`
	UserID     uuid.UUID  `json:"userID" db:"user_id"`
	TaskID     *uuid.UUID `json:"taskID" db:"task_id"`
	Kind       string     `json:"kind" db:"kind"`
	Message    string     `json:"message" db:"message"`
	ReadAt     *time.Time `json:"readAt" db:"read_at"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

type NotificationFilters struct {
	Unread *bool
}

// TaskAssignedPayload is the queue payload of a task assignment.
type TaskAssignedPayload struct {
	CustomerID uuid.UUID  `json:"customerID"`
	TaskID     uuid.UUID  `json:"taskID"`
	UserID     uuid.UUID  `json:"userID"`
	Title      string     `json:"title"`
	DueAt      *time.Time `json:"dueAt,omitempty"`
}
