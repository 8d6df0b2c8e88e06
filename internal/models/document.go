package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is file metadata; the bytes live in object storage under ObjectKey.
type Document struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CustomerID  uuid.UUID  `json:"customerID" db:"customer_id"`
	LocationID  *uuid.UUID `json:"locationID" db:"location_id"`
	TaskID      *uuid.UUID `json:"taskID" db:"task_id"`
	Title       string     `json:"title" db:"title"`
	FileName    string     `json:"fileName" db:"file_name"`
	ContentType string     `json:"contentType" db:"content_type"`
	Size        int64      `json:"size" db:"size"`
	ObjectKey   string     `json:"-" db:"object_key"`
	UploadedBy  uuid.UUID  `json:"uploadedBy" db:"uploaded_by"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`
}

type DocumentFilters struct {
	LocationID *uuid.UUID
	TaskID     *uuid.UUID
	UploadedBy *uuid.UUID
}
