package models

import (
	"time"

	"github.com/google/uuid"
)

// Cred is a global capability code granted to profiles.
type Cred struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Description string    `json:"description" db:"description"`
}

// Profile is a named role of a customer, optionally bound to one location.
type Profile struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CustomerID  uuid.UUID  `json:"customerID" db:"customer_id"`
	LocationID  *uuid.UUID `json:"locationID" db:"location_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`
}

type ProfileCred struct {
	ProfileID uuid.UUID `json:"profileID" db:"profile_id"`
	CredID    uuid.UUID `json:"credID" db:"cred_id"`
}

type ProfileFilters struct {
	LocationID *uuid.UUID
}

// Security binds a user to a location through a profile.
type Security struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CustomerID   uuid.UUID `json:"customerID" db:"customer_id"`
	UserID       uuid.UUID `json:"userID" db:"user_id"`
	LocationID   uuid.UUID `json:"locationID" db:"location_id"`
	ProfileID    uuid.UUID `json:"profileID" db:"profile_id"`
	UserName     string    `json:"userName,omitempty" db:"-"`
	LocationName string    `json:"locationName,omitempty" db:"-"`
	ProfileName  string    `json:"profileName,omitempty" db:"-"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type SecurityFilters struct {
	UserID     *uuid.UUID
	LocationID *uuid.UUID
	ProfileID  *uuid.UUID
}

// Cred codes checked by route middleware. Admin principals hold every cred.
const (
	CredTasksView       = "tasks.view"
	CredTasksManage     = "tasks.manage"
	CredTasksComplete   = "tasks.complete"
	CredDocumentsManage = "documents.manage"
	CredReportsView     = "reports.view"
	CredReportsManage   = "reports.manage"
	CredUsersManage     = "users.manage"
)
