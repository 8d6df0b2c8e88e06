package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the tenant root. Domain is matched against the request Origin/Referer host.
type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Domain    string    `json:"domain" db:"domain"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

const (
	ProviderAzure = "azure"
	ProviderOkta  = "okta"
)

var SSOProviders = []string{ProviderAzure, ProviderOkta}

// SocialiteClient is a customer's configuration for one external identity provider.
type SocialiteClient struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CustomerID   uuid.UUID `json:"customerID" db:"customer_id"`
	Provider     string    `json:"provider" db:"provider"`
	ClientID     string    `json:"clientID" db:"client_id"`
	ClientSecret string    `json:"-" db:"client_secret"`
	// TenantRef is the Azure AD tenant id, or the Okta org base URL.
	TenantRef   string    `json:"tenantRef" db:"tenant_ref"`
	RedirectURL string    `json:"redirectURL" db:"redirect_url"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type SocialiteClientFilters struct {
	Provider *string
	Active   *bool
}
