package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportCatalog is a global report type.
type ReportCatalog struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Key         string    `json:"key" db:"key"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
}

type ReportSection struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CatalogID uuid.UUID `json:"catalogID" db:"catalog_id"`
	Name      string    `json:"name" db:"name"`
	Position  int       `json:"position" db:"position"`
}

type ReportFilter struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SectionID uuid.UUID `json:"sectionID" db:"section_id"`
	Field     string    `json:"field" db:"field"`
	Operator  string    `json:"operator" db:"operator"`
	Label     string    `json:"label" db:"label"`
}

// Report is a saved, parameterised report of a customer.
type Report struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	CustomerID uuid.UUID      `json:"customerID" db:"customer_id"`
	CatalogID  uuid.UUID      `json:"catalogID" db:"catalog_id"`
	LocationID *uuid.UUID     `json:"locationID" db:"location_id"`
	Name       string         `json:"name" db:"name"`
	Params     map[string]any `json:"params" db:"params"`
	CreatedBy  uuid.UUID      `json:"createdBy" db:"created_by"`
	CreatedAt  time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time      `json:"updatedAt" db:"updated_at"`
	DeletedAt  *time.Time     `json:"-" db:"deleted_at"`
}

type ReportFilters struct {
	CatalogID  *uuid.UUID
	LocationID *uuid.UUID
	CreatedBy  *uuid.UUID
}

const (
	GroupByTopic    = "topic"
	GroupByLocation = "location"
)

// TaskStatusQuery selects the tasks of a colour-status breakdown.
type TaskStatusQuery struct {
	GroupBy    string
	LocationID *uuid.UUID
	TopicID    *uuid.UUID
	DueFrom    *time.Time
	DueTo      *time.Time
}

// TaskStatusCount is one (group, colour) count row.
type TaskStatusCount struct {
	GroupID   *uuid.UUID
	GroupName string
	Color     string
	Count     int
}

// TaskStatusGroup is the colour breakdown of one topic or location.
type TaskStatusGroup struct {
	GroupID     *uuid.UUID         `json:"groupID"`
	GroupName   string             `json:"groupName"`
	Total       int                `json:"total"`
	Counts      map[string]int     `json:"counts"`
	Percentages map[string]float64 `json:"percentages"`
}
