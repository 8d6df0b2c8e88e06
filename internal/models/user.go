package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	CustomerID        uuid.UUID  `json:"customerID" db:"customer_id"`
	LoginName         string     `json:"loginName" db:"login_name"`
	Email             string     `json:"email" db:"email"`
	FirstName         string     `json:"firstName" db:"first_name"`
	LastName          string     `json:"lastName" db:"last_name"`
	PasswordHash      string     `json:"-" db:"password_hash"`
	Salt              string     `json:"-" db:"salt"`
	Active            bool       `json:"active" db:"active"`
	Approved          bool       `json:"approved" db:"approved"`
	NotifyEmail       bool       `json:"notifyEmail" db:"notify_email"`
	NotifySMS         bool       `json:"notifySms" db:"notify_sms"`
	UserType          string     `json:"userType" db:"user_type"`
	DefaultLocationID *uuid.UUID `json:"defaultLocationID" db:"default_location_id"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt         *time.Time `json:"-" db:"deleted_at"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// CanLogin reports whether the account may authenticate.
func (u *User) CanLogin() bool {
	return u.Active && u.Approved && u.DeletedAt == nil
}

type UserFilters struct {
	Active     *bool
	Approved   *bool
	UserType   *string
	LocationID *uuid.UUID
}
