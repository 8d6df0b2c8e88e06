package common

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/apperrors"

	"github.com/google/uuid"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
	// MaxPage keeps the row offset well inside int range.
	MaxPage = 100000
)

// ListParams are the paging, search and ordering inputs shared by every list endpoint.
type ListParams struct {
	PerPage      int
	Page         int
	Search       string
	OrderBy      string // ASC or DESC
	OrderByField string
}

// Offset returns the row offset of the requested page.
func (p ListParams) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// QueryReader reads typed filter values from a query string and collects every
// malformed value into one validation error.
type QueryReader struct {
	values url.Values
	errs   *apperrors.ValidationError
}

func NewQueryReader(values url.Values) *QueryReader {
	return &QueryReader{values: values, errs: &apperrors.ValidationError{}}
}

// ListParams reads perPage, page, search, orderBy and orderByField.
func (r *QueryReader) ListParams() ListParams {
	params := ListParams{PerPage: DefaultPerPage, Page: 1, OrderBy: "ASC"}

	if raw := strings.TrimSpace(r.values.Get("perPage")); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil || n <= 0:
			r.errs.Add("perPage", "perPage must be a positive integer")
		case n > MaxPerPage:
			params.PerPage = MaxPerPage
		default:
			params.PerPage = n
		}
	}

	if raw := strings.TrimSpace(r.values.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil || n <= 0:
			r.errs.Add("page", "page must be a positive integer")
		case n > MaxPage:
			r.errs.Add("page", fmt.Sprintf("page must be at most %d", MaxPage))
		default:
			params.Page = n
		}
	}

	params.Search = SanitizeSearchQuery(r.values.Get("search"))

	if raw := strings.TrimSpace(r.values.Get("orderBy")); raw != "" {
		switch strings.ToLower(raw) {
		case "asc", "desc":
			params.OrderBy = ValidateSortOrder(raw)
		default:
			r.errs.Add("orderBy", "orderBy must be asc or desc")
		}
	}
	params.OrderByField = strings.TrimSpace(r.values.Get("orderByField"))

	return params
}

// String returns a trimmed non-empty value or nil.
func (r *QueryReader) String(name string) *string {
	raw := strings.TrimSpace(r.values.Get(name))
	if raw == "" {
		return nil
	}
	return &raw
}

// OneOf returns the value when it is one of allowed, nil when absent.
func (r *QueryReader) OneOf(name string, allowed ...string) *string {
	v := r.String(name)
	if v == nil {
		return nil
	}
	for _, a := range allowed {
		if *v == a {
			return v
		}
	}
	r.errs.Add(name, fmt.Sprintf("%s must be one of: %s", name, strings.Join(allowed, ", ")))
	return nil
}

func (r *QueryReader) UUID(name string) *uuid.UUID {
	v := r.String(name)
	if v == nil {
		return nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		r.errs.Add(name, name+" must be a valid UUID")
		return nil
	}
	return &id
}

// Bool accepts true/false/1/0.
func (r *QueryReader) Bool(name string) *bool {
	v := r.String(name)
	if v == nil {
		return nil
	}
	b, err := strconv.ParseBool(*v)
	if err != nil {
		r.errs.Add(name, name+" must be a boolean")
		return nil
	}
	return &b
}

// Time accepts RFC3339 timestamps or YYYY-MM-DD dates.
func (r *QueryReader) Time(name string) *time.Time {
	v := r.String(name)
	if v == nil {
		return nil
	}
	t, err := ParseTimeParam(*v)
	if err != nil {
		r.errs.Add(name, name+" must be an RFC3339 timestamp or YYYY-MM-DD date")
		return nil
	}
	return &t
}

// Range reads a from/to pair that must be given together and in order.
// A bare date in the upper bound covers the whole day.
func (r *QueryReader) Range(fromName, toName string) (*time.Time, *time.Time) {
	from := r.Time(fromName)
	to := r.Time(toName)
	rawFrom, rawTo := r.String(fromName), r.String(toName)

	if (rawFrom == nil) != (rawTo == nil) {
		r.errs.Add(fromName, fmt.Sprintf("%s and %s must be provided together", fromName, toName))
		return nil, nil
	}
	if from == nil || to == nil {
		return nil, nil
	}
	if len(*rawTo) == len("2006-01-02") {
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	if to.Before(*from) {
		r.errs.Add(toName, fmt.Sprintf("%s cannot be before %s", toName, fromName))
		return nil, nil
	}
	return from, to
}

// Require records an error when name is absent.
func (r *QueryReader) Require(name string) {
	if r.String(name) == nil {
		r.errs.Add(name, name+" is required")
	}
}

// Err returns the collected validation error or nil.
func (r *QueryReader) Err() error {
	return r.errs.OrNil()
}

// ParseTimeParam parses RFC3339 or YYYY-MM-DD (UTC midnight).
func ParseTimeParam(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
