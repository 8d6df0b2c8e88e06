package models

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a hierarchical task category.
type Topic struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	CustomerID    uuid.UUID  `json:"customerID" db:"customer_id"`
	Name          string     `json:"name" db:"name"`
	Description   string     `json:"description" db:"description"`
	TopicParentID *uuid.UUID `json:"topicParentID" db:"topic_parent_id"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt     *time.Time `json:"-" db:"deleted_at"`
}

type TopicFilters struct {
	ParentID *uuid.UUID
	RootOnly bool
}
