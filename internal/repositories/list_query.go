package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/models"
)

// listQuery assembles the WHERE clause of a list endpoint in the fixed order
// tenant, location scope, search, filters, then renders count and page queries.
type listQuery struct {
	columns string
	from    string
	conds   []string
	args    []any
}

func newListQuery(columns, from, tenantColumn string, customerID any) *listQuery {
	q := &listQuery{columns: columns, from: from}
	q.where(tenantColumn+" = ?", customerID)
	return q
}

// newGlobalListQuery is for tables shared by all customers.
func newGlobalListQuery(columns, from string) *listQuery {
	return &listQuery{columns: columns, from: from}
}

func (q *listQuery) placeholder(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

// where appends cond, replacing each ? with the next positional placeholder.
func (q *listQuery) where(cond string, args ...any) *listQuery {
	var b strings.Builder
	i := 0
	for _, r := range cond {
		if r == '?' && i < len(args) {
			b.WriteString(q.placeholder(args[i]))
			i++
			continue
		}
		b.WriteRune(r)
	}
	q.conds = append(q.conds, b.String())
	return q
}

// scope restricts column to the visible locations of a non-admin principal.
func (q *listQuery) scope(column string, scope models.LocationScope) *listQuery {
	if !scope.Restricted {
		return q
	}
	if len(scope.LocationIDs) == 0 {
		q.conds = append(q.conds, "FALSE")
		return q
	}
	return q.where(column+" = ANY(?)", scope.LocationIDs)
}

// search matches term case-insensitively against any of columns.
func (q *listQuery) search(term string, columns ...string) *listQuery {
	if term == "" || len(columns) == 0 {
		return q
	}
	p := q.placeholder("%" + term + "%")
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " ILIKE " + p
	}
	q.conds = append(q.conds, "("+strings.Join(parts, " OR ")+")")
	return q
}

// eq adds column = value when value is non-nil. Pointer values are dereferenced by pgx.
func eq[T any](q *listQuery, column string, value *T) {
	if value != nil {
		q.where(column+" = ?", *value)
	}
}

func (q *listQuery) whereClause() string {
	if len(q.conds) == 0 {
		return "TRUE"
	}
	return strings.Join(q.conds, " AND ")
}

func (q *listQuery) countSQL() (string, []any) {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", q.from, q.whereClause()), q.args
}

// pageSQL renders the page query. The ordering field must be one of sorts.
func (q *listQuery) pageSQL(params common.ListParams, sorts sortFields) (string, []any, error) {
	order, err := sorts.clause(params)
	if err != nil {
		return "", nil, err
	}
	args := append([]any{}, q.args...)
	limit := fmt.Sprintf("$%d", len(args)+1)
	offset := fmt.Sprintf("$%d", len(args)+2)
	args = append(args, params.PerPage, params.Offset())

	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT %s OFFSET %s",
		q.columns, q.from, q.whereClause(), order, limit, offset)
	return sql, args, nil
}

// sortFields maps orderByField values to SQL expressions; fallback is used when none is given.
type sortFields struct {
	fields   map[string]string
	fallback string
	tieBreak string
}

func (s sortFields) clause(params common.ListParams) (string, error) {
	direction := common.ValidateSortOrder(params.OrderBy)
	field := params.OrderByField
	if field == "" {
		field = s.fallback
	}
	expr, ok := s.fields[field]
	if !ok {
		allowed := make([]string, 0, len(s.fields))
		for k := range s.fields {
			allowed = append(allowed, k)
		}
		sort.Strings(allowed)
		return "", apperrors.Invalid("orderByField", "orderByField must be one of: "+strings.Join(allowed, ", "))
	}
	order := expr + " " + direction + " NULLS LAST"
	if s.tieBreak != "" {
		order += ", " + s.tieBreak
	}
	return order, nil
}

// runList executes the count and page queries of q.
func runList[T any](ctx context.Context, db DBTX, q *listQuery, params common.ListParams, sorts sortFields,
	scan func(scanner) (*T, error)) ([]*T, int, error) {
	pageSQL, pageArgs, err := q.pageSQL(params, sorts)
	if err != nil {
		return nil, 0, err
	}

	countSQL, countArgs := q.countSQL()
	var total int
	if err := db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	rows, err := db.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	items, err := collect(rows, scan)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
