package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey     contextKey = "user_id"
	CustomerIDKey contextKey = "customer_id"
	PrincipalKey  contextKey = "principal"
)

// User types that bypass Security-row location scoping.
const (
	UserTypeSuperAdmin = "super_admin"
	UserTypeAdmin      = "admin"
	UserTypeUser       = "user"
)

// Principal is the authenticated caller as decoded from the access token.
type Principal struct {
	UserID     uuid.UUID
	CustomerID uuid.UUID
	UserType   string
	TokenID    string
}

// IsAdmin reports whether the principal sees every location of its customer.
func (p *Principal) IsAdmin() bool {
	return p.UserType == UserTypeSuperAdmin || p.UserType == UserTypeAdmin
}

func (p *Principal) IsSuperAdmin() bool {
	return p.UserType == UserTypeSuperAdmin
}

// WithPrincipal stores the principal and its ids on ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	ctx = context.WithValue(ctx, PrincipalKey, p)
	ctx = context.WithValue(ctx, UserIDKey, p.UserID)
	return context.WithValue(ctx, CustomerIDKey, p.CustomerID)
}

// PrincipalFromContext extracts the authenticated principal
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*Principal)
	return p, ok && p != nil
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetCustomerIDFromContext extracts the tenant (customer) ID from the request context
func GetCustomerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	customerID, ok := ctx.Value(CustomerIDKey).(uuid.UUID)
	return customerID, ok
}

// ValidateUUID validates UUID format
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	if len(idStr) != 36 {
		return uuid.Nil, fmt.Errorf("%s must be exactly 36 characters (including hyphens)", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s contains invalid characters: %v", fieldName, err)
	}
	return id, nil
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

const maxSearchRunes = 100

// SanitizeSearchQuery strips LIKE wildcards and invalid UTF-8, and bounds a search
// term to maxSearchRunes characters. Postgres rejects invalid UTF-8 parameters.
func SanitizeSearchQuery(query string) string {
	query = strings.TrimSpace(strings.ToValidUTF8(query, ""))
	if query == "" {
		return ""
	}

	query = strings.ReplaceAll(query, "%", "")
	query = strings.ReplaceAll(query, "_", "")
	query = strings.ReplaceAll(query, "\\", "")

	if runes := []rune(query); len(runes) > maxSearchRunes {
		query = string(runes[:maxSearchRunes])
	}

	return strings.TrimSpace(query)
}

// ValidateSortOrder validates sort order parameters
func ValidateSortOrder(sortOrder string) string {
	if strings.ToLower(sortOrder) == "desc" {
		return "DESC"
	}
	return "ASC"
}
