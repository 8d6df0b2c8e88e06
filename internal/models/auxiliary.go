package models

import (
	"time"

	"github.com/google/uuid"
)

type LegalRef struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	CustomerID   uuid.UUID  `json:"customerID" db:"customer_id"`
	Code         string     `json:"code" db:"code"`
	Title        string     `json:"title" db:"title"`
	URL          string     `json:"url" db:"url"`
	Jurisdiction string     `json:"jurisdiction" db:"jurisdiction"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt    *time.Time `json:"-" db:"deleted_at"`
}

type LegalRefFilters struct {
	Jurisdiction *string
}

type LicenseIndustry struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CustomerID  uuid.UUID  `json:"customerID" db:"customer_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`
}

type LicenseUser struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	CustomerID        uuid.UUID  `json:"customerID" db:"customer_id"`
	LicenseIndustryID uuid.UUID  `json:"licenseIndustryID" db:"license_industry_id"`
	UserID            uuid.UUID  `json:"userID" db:"user_id"`
	LicenseNumber     string     `json:"licenseNumber" db:"license_number"`
	ExpiresAt         *time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt         *time.Time `json:"-" db:"deleted_at"`
}

type LicenseUserFilters struct {
	LicenseIndustryID *uuid.UUID
	UserID            *uuid.UUID
	ExpiresFrom       *time.Time
	ExpiresTo         *time.Time
}

// TasksAssessmentInfo records the outcome of an assessment task.
type TasksAssessmentInfo struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	CustomerID uuid.UUID  `json:"customerID" db:"customer_id"`
	TaskID     uuid.UUID  `json:"taskID" db:"task_id"`
	Score      float64    `json:"score" db:"score"`
	MaxScore   float64    `json:"maxScore" db:"max_score"`
	Notes      string     `json:"notes" db:"notes"`
	AssessedBy *uuid.UUID `json:"assessedBy" db:"assessed_by"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt  *time.Time `json:"-" db:"deleted_at"`
}

type AssessmentFilters struct {
	TaskID     *uuid.UUID
	AssessedBy *uuid.UUID
}

// TasksReportCustom is a hand-picked list of tasks.
type TasksReportCustom struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CustomerID  uuid.UUID  `json:"customerID" db:"customer_id"`
	LocationID  *uuid.UUID `json:"locationID" db:"location_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	CreatedBy   uuid.UUID  `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`
}

type TasksReportCustomItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ReportID  uuid.UUID `json:"reportID" db:"report_id"`
	TaskID    uuid.UUID `json:"taskID" db:"task_id"`
	Position  int       `json:"position" db:"position"`
	TaskTitle string    `json:"taskTitle,omitempty" db:"-"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type TasksReportCustomFilters struct {
	LocationID *uuid.UUID
	CreatedBy  *uuid.UUID
}
