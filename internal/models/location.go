package models

import (
	"time"

	"github.com/google/uuid"
)

type Location struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	CustomerID      uuid.UUID  `json:"customerID" db:"customer_id"`
	Name            string     `json:"name" db:"name"`
	Address         string     `json:"address" db:"address"`
	SchedulerActive bool       `json:"schedulerActive" db:"scheduler_active"`
	DefaultUserID   *uuid.UUID `json:"defaultUserID" db:"default_user_id"`
	DefaultUserName *string    `json:"defaultUserName,omitempty" db:"-"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt       *time.Time `json:"-" db:"deleted_at"`
}

type LocationFilters struct {
	SchedulerActive *bool
}
