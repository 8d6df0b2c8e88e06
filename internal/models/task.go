package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskTypeRecurring  = "recurring"
	TaskTypeEvent      = "event"
	TaskTypeAssessment = "assessment"
)

// Colour statuses. Pending tasks are white, yellow or red; completed ones green or orange.
const (
	ColorWhite  = "white"
	ColorYellow = "yellow"
	ColorRed    = "red"
	ColorGreen  = "green"
	ColorOrange = "orange"
)

// AllColors lists colour statuses in report order.
var AllColors = []string{ColorGreen, ColorOrange, ColorRed, ColorYellow, ColorWhite}

const (
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

var TaskTypes = []string{TaskTypeRecurring, TaskTypeEvent, TaskTypeAssessment}

var Recurrences = []string{RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly}

type Task struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	CustomerID        uuid.UUID  `json:"customerID" db:"customer_id"`
	LocationID        uuid.UUID  `json:"locationID" db:"location_id"`
	TopicID           *uuid.UUID `json:"topicID" db:"topic_id"`
	AssignedUserID    *uuid.UUID `json:"assignedUserID" db:"assigned_user_id"`
	AssignedProfileID *uuid.UUID `json:"assignedProfileID" db:"assigned_profile_id"`
	Title             string     `json:"title" db:"title"`
	Description       string     `json:"description" db:"description"`
	Type              string     `json:"type" db:"type"`
	Color             string     `json:"color" db:"color"`
	IsTaskSet         bool       `json:"isTaskSet" db:"is_task_set"`
	IsTemplate        bool       `json:"isTemplate" db:"is_template"`
	Recurrence        *string    `json:"recurrence" db:"recurrence"`
	TaskSetTemplateID *uuid.UUID `json:"taskSetTemplateID" db:"task_set_template_id"`
	TemplateID        *uuid.UUID `json:"templateID" db:"template_id"`
	DueAt             *time.Time `json:"dueAt" db:"due_at"`
	CompletedAt       *time.Time `json:"completedAt" db:"completed_at"`
	UserCompleted     *uuid.UUID `json:"userCompleted" db:"user_completed"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt         *time.Time `json:"-" db:"deleted_at"`

	LocationName     *string       `json:"locationName,omitempty" db:"-"`
	TopicName        *string       `json:"topicName,omitempty" db:"-"`
	AssignedUserName *string       `json:"assignedUserName,omitempty" db:"-"`
	Progress         *TaskProgress `json:"progress,omitempty" db:"-"`
}

func (t *Task) IsCompleted() bool {
	return t.CompletedAt != nil
}

// TaskProgress is the completion state of a task set's live children.
type TaskProgress struct {
	TaskSetID uuid.UUID `json:"taskSetID"`
	Total     int       `json:"total"`
	Completed int       `json:"completed"`
	Percent   float64   `json:"percent"`
}

// TaskFilters are the entity filters of the task list endpoints.
type TaskFilters struct {
	LocationID        *uuid.UUID
	TopicID           *uuid.UUID
	AssignedUserID    *uuid.UUID
	AssignedProfileID *uuid.UUID
	Type              *string
	Color             *string
	IsTaskSet         *bool
	IsTemplate        *bool
	TaskSetTemplateID *uuid.UUID
	Completed         *bool
	DueFrom           *time.Time
	DueTo             *time.Time
	UserCompleted     *uuid.UUID
	CompletedFrom     *time.Time
	CompletedTo       *time.Time
}
