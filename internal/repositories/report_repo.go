package repositories

import (
	"context"

	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReportCatalogRepository manages the global report configuration tables.
type ReportCatalogRepository interface {
	UpsertCatalog(ctx context.Context, catalog *models.ReportCatalog) error
	GetCatalog(ctx context.Context, id uuid.UUID) (*models.ReportCatalog, error)
	UpdateCatalog(ctx context.Context, catalog *models.ReportCatalog) error
	DeleteCatalog(ctx context.Context, id uuid.UUID) error
	ListCatalogs(ctx context.Context, params common.ListParams) ([]*models.ReportCatalog, int, error)

	CreateSection(ctx context.Context, section *models.ReportSection) error
	GetSection(ctx context.Context, id uuid.UUID) (*models.ReportSection, error)
	UpdateSection(ctx context.Context, section *models.ReportSection) error
	DeleteSection(ctx context.Context, id uuid.UUID) error
	ListSections(ctx context.Context, catalogID *uuid.UUID, params common.ListParams) ([]*models.ReportSection, int, error)
	ReplaceSections(ctx context.Context, catalogID uuid.UUID, sections []*models.ReportSection, filters map[uuid.UUID][]*models.ReportFilter) error

	CreateFilter(ctx context.Context, filter *models.ReportFilter) error
	GetFilter(ctx context.Context, id uuid.UUID) (*models.ReportFilter, error)
	UpdateFilter(ctx context.Context, filter *models.ReportFilter) error
	DeleteFilter(ctx context.Context, id uuid.UUID) error
	ListFilters(ctx context.Context, sectionID *uuid.UUID, params common.ListParams) ([]*models.ReportFilter, int, error)
}

type reportCatalogRepo struct {
	db DBTX
}

func NewReportCatalogRepo(db DBTX) ReportCatalogRepository {
	return &reportCatalogRepo{db: db}
}

const (
	reportCatalogColumns = `rc.id, rc.key, rc.name, rc.description`
	reportSectionColumns = `rs.id, rs.catalog_id, rs.name, rs.position`
	reportFilterColumns  = `rf.id, rf.section_id, rf.field, rf.operator, rf.label`
)

var (
	reportCatalogSorts = sortFields{
		fields:   map[string]string{"key": "rc.key", "name": "rc.name"},
		fallback: "name",
		tieBreak: "rc.id",
	}
	reportSectionSorts = sortFields{
		fields:   map[string]string{"position": "rs.position", "name": "rs.name"},
		fallback: "position",
		tieBreak: "rs.id",
	}
	reportFilterSorts = sortFields{
		fields:   map[string]string{"field": "rf.field", "label": "rf.label"},
		fallback: "field",
		tieBreak: "rf.id",
	}
)

func scanReportCatalog(row scanner) (*models.ReportCatalog, error) {
	c := &models.ReportCatalog{}
	if err := row.Scan(&c.ID, &c.Key, &c.Name, &c.Description); err != nil {
		return nil, err
	}
	return c, nil
}

func scanReportSection(row scanner) (*models.ReportSection, error) {
	s := &models.ReportSection{}
	if err := row.Scan(&s.ID, &s.CatalogID, &s.Name, &s.Position); err != nil {
		return nil, err
	}
	return s, nil
}

func scanReportFilter(row scanner) (*models.ReportFilter, error) {
	f := &models.ReportFilter{}
	if err := row.Scan(&f.ID, &f.SectionID, &f.Field, &f.Operator, &f.Label); err != nil {
		return nil, err
	}
	return f, nil
}

// UpsertCatalog inserts by key or refreshes name and description of an existing key.
func (r *reportCatalogRepo) UpsertCatalog(ctx context.Context, catalog *models.ReportCatalog) error {
	query := `
		INSERT INTO report_catalogs (id, key, name, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description
		RETURNING id
	`
	return r.db.QueryRow(ctx, query, catalog.ID, catalog.Key, catalog.Name, catalog.Description).Scan(&catalog.ID)
}

func (r *reportCatalogRepo) GetCatalog(ctx context.Context, id uuid.UUID) (*models.ReportCatalog, error) {
	c, err := scanReportCatalog(r.db.QueryRow(ctx, `SELECT `+reportCatalogColumns+` FROM report_catalogs rc WHERE rc.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "report catalog")
	}
	return c, nil
}

func (r *reportCatalogRepo) UpdateCatalog(ctx context.Context, catalog *models.ReportCatalog) error {
	tag, err := r.db.Exec(ctx, `UPDATE report_catalogs SET key = $1, name = $2, description = $3 WHERE id = $4`,
		catalog.Key, catalog.Name, catalog.Description, catalog.ID)
	if err != nil {
		return uniqueConflict(err, "report catalog key already exists")
	}
	return affectedOne(tag, nil, "report catalog")
}

func (r *reportCatalogRepo) DeleteCatalog(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM report_catalogs WHERE id = $1`, id)
	return affectedOne(tag, err, "report catalog")
}

func (r *reportCatalogRepo) ListCatalogs(ctx context.Context, params common.ListParams) ([]*models.ReportCatalog, int, error) {
	q := newGlobalListQuery(reportCatalogColumns, "report_catalogs rc")
	q.search(params.Search, "rc.key", "rc.name")
	return runList(ctx, r.db, q, params, reportCatalogSorts, scanReportCatalog)
}

func (r *reportCatalogRepo) CreateSection(ctx context.Context, section *models.ReportSection) error {
	_, err := r.db.Exec(ctx, `INSERT INTO report_sections (id, catalog_id, name, position) VALUES ($1, $2, $3, $4)`,
		section.ID, section.CatalogID, section.Name, section.Position)
	return err
}

func (r *reportCatalogRepo) GetSection(ctx context.Context, id uuid.UUID) (*models.ReportSection, error) {
	s, err := scanReportSection(r.db.QueryRow(ctx, `SELECT `+reportSectionColumns+` FROM report_sections rs WHERE rs.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "report section")
	}
	return s, nil
}

func (r *reportCatalogRepo) UpdateSection(ctx context.Context, section *models.ReportSection) error {
	tag, err := r.db.Exec(ctx, `UPDATE report_sections SET catalog_id = $1, name = $2, position = $3 WHERE id = $4`,
		section.CatalogID, section.Name, section.Position, section.ID)
	return affectedOne(tag, err, "report section")
}

func (r *reportCatalogRepo) DeleteSection(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM report_sections WHERE id = $1`, id)
	return affectedOne(tag, err, "report section")
}

func (r *reportCatalogRepo) ListSections(ctx context.Context, catalogID *uuid.UUID, params common.ListParams) ([]*models.ReportSection, int, error) {
	q := newGlobalListQuery(reportSectionColumns, "report_sections rs")
	q.search(params.Search, "rs.name")
	eq(q, "rs.catalog_id", catalogID)
	return runList(ctx, r.db, q, params, reportSectionSorts, scanReportSection)
}

// ReplaceSections rewrites the sections and filters of one catalog, used by the seeder.
func (r *reportCatalogRepo) ReplaceSections(ctx context.Context, catalogID uuid.UUID, sections []*models.ReportSection, filters map[uuid.UUID][]*models.ReportFilter) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM report_sections WHERE catalog_id = $1`, catalogID); err != nil {
			return err
		}
		for _, s := range sections {
			if _, err := tx.Exec(ctx, `INSERT INTO report_sections (id, catalog_id, name, position) VALUES ($1, $2, $3, $4)`,
				s.ID, catalogID, s.Name, s.Position); err != nil {
				return err
			}
			for _, f := range filters[s.ID] {
				if _, err := tx.Exec(ctx, `INSERT INTO report_filters (id, section_id, field, operator, label) VALUES ($1, $2, $3, $4, $5)`,
					f.ID, s.ID, f.Field, f.Operator, f.Label); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *reportCatalogRepo) CreateFilter(ctx context.Context, filter *models.ReportFilter) error {
	_, err := r.db.Exec(ctx, `INSERT INTO report_filters (id, section_id, field, operator, label) VALUES ($1, $2, $3, $4, $5)`,
		filter.ID, filter.SectionID, filter.Field, filter.Operator, filter.Label)
	return err
}

func (r *reportCatalogRepo) GetFilter(ctx context.Context, id uuid.UUID) (*models.ReportFilter, error) {
	f, err := scanReportFilter(r.db.QueryRow(ctx, `SELECT `+reportFilterColumns+` FROM report_filters rf WHERE rf.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "report filter")
	}
	return f, nil
}

func (r *reportCatalogRepo) UpdateFilter(ctx context.Context, filter *models.ReportFilter) error {
	tag, err := r.db.Exec(ctx, `UPDATE report_filters SET section_id = $1, field = $2, operator = $3, label = $4 WHERE id = $5`,
		filter.SectionID, filter.Field, filter.Operator, filter.Label, filter.ID)
	return affectedOne(tag, err, "report filter")
}

func (r *reportCatalogRepo) DeleteFilter(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM report_filters WHERE id = $1`, id)
	return affectedOne(tag, err, "report filter")
}

func (r *reportCatalogRepo) ListFilters(ctx context.Context, sectionID *uuid.UUID, params common.ListParams) ([]*models.ReportFilter, int, error) {
	q := newGlobalListQuery(reportFilterColumns, "report_filters rf")
	q.search(params.Search, "rf.field", "rf.label")
	eq(q, "rf.section_id", sectionID)
	return runList(ctx, r.db, q, params, reportFilterSorts, scanReportFilter)
}

// ReportRepository stores saved reports and computes the task-status aggregate.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Report, error)
	Update(ctx context.Context, report *models.Report) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
	List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.ReportFilters, params common.ListParams) ([]*models.Report, int, error)
	TaskStatusCounts(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, query models.TaskStatusQuery) ([]models.TaskStatusCount, error)
}

type reportRepo struct {
	db DBTX
}

func NewReportRepo(db DBTX) ReportRepository {
	return &reportRepo{db: db}
}

const reportColumns = `r.id, r.customer_id, r.catalog_id, r.location_id, r.name, r.params, r.created_by, r.created_at, r.updated_at`

var reportSorts = sortFields{
	fields:   map[string]string{"name": "r.name", "createdAt": "r.created_at"},
	fallback: "name",
	tieBreak: "r.id",
}

func scanReport(row scanner) (*models.Report, error) {
	rep := &models.Report{}
	err := row.Scan(&rep.ID, &rep.CustomerID, &rep.CatalogID, &rep.LocationID, &rep.Name, &rep.Params,
		&rep.CreatedBy, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *reportRepo) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (id, customer_id, catalog_id, location_id, name, params, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, report.ID, report.CustomerID, report.CatalogID, report.LocationID, report.Name,
		report.Params, report.CreatedBy).Scan(&report.CreatedAt, &report.UpdatedAt)
}

func (r *reportRepo) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports r WHERE r.customer_id = $1 AND r.id = $2 AND r.deleted_at IS NULL`
	rep, err := scanReport(r.db.QueryRow(ctx, query, customerID, id))
	if err != nil {
		return nil, notFound(err, "report")
	}
	return rep, nil
}

func (r *reportRepo) Update(ctx context.Context, report *models.Report) error {
	query := `
		UPDATE reports
		SET catalog_id = $1, location_id = $2, name = $3, params = $4, updated_at = NOW()
		WHERE customer_id = $5 AND id = $6 AND deleted_at IS NULL
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, report.CatalogID, report.LocationID, report.Name, report.Params,
		report.CustomerID, report.ID).Scan(&report.UpdatedAt)
	return notFound(err, "report")
}

func (r *reportRepo) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	query := `UPDATE reports SET deleted_at = NOW() WHERE customer_id = $1 AND id = $2 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, customerID, id)
	return affectedOne(tag, err, "report")
}

func (r *reportRepo) List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.ReportFilters, params common.ListParams) ([]*models.Report, int, error) {
	q := newListQuery(reportColumns, "reports r", "r.customer_id", customerID)
	q.where("r.deleted_at IS NULL")
	if scope.Restricted {
		if len(scope.LocationIDs) == 0 {
			q.where("r.location_id IS NULL")
		} else {
			q.where("(r.location_id IS NULL OR r.location_id = ANY(?))", scope.LocationIDs)
		}
	}
	q.search(params.Search, "r.name")
	eq(q, "r.catalog_id", filters.CatalogID)
	eq(q, "r.location_id", filters.LocationID)
	eq(q, "r.created_by", filters.CreatedBy)
	return runList(ctx, r.db, q, params, reportSorts, scanReport)
}

// TaskStatusCounts counts live, non-template, non-set tasks per group and colour.
// Tasks without a topic are grouped under a NULL group id.
func (r *reportRepo) TaskStatusCounts(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, query models.TaskStatusQuery) ([]models.TaskStatusCount, error) {
	groupID, groupName := "t.topic_id", "COALESCE(tp.name, '')"
	if query.GroupBy == models.GroupByLocation {
		groupID, groupName = "t.location_id", "l.name"
	}

	q := newListQuery("", "tasks t LEFT JOIN topics tp ON tp.id = t.topic_id JOIN locations l ON l.id = t.location_id",
		"t.customer_id", customerID)
	q.where("t.deleted_at IS NULL AND t.is_template = FALSE AND t.is_task_set = FALSE")
	q.scope("t.location_id", scope)
	eq(q, "t.location_id", query.LocationID)
	eq(q, "t.topic_id", query.TopicID)
	if query.DueFrom != nil && query.DueTo != nil {
		q.where("t.due_at BETWEEN ? AND ?", *query.DueFrom, *query.DueTo)
	}

	sql := `SELECT ` + groupID + `, ` + groupName + `, t.color, COUNT(*) FROM ` + q.from +
		` WHERE ` + q.whereClause() +
		` GROUP BY ` + groupID + `, ` + groupName + `, t.color ORDER BY 2, 1, 3`
	rows, err := r.db.Query(ctx, sql, q.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.TaskStatusCount
	for rows.Next() {
		var c models.TaskStatusCount
		if err := rows.Scan(&c.GroupID, &c.GroupName, &c.Color, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
