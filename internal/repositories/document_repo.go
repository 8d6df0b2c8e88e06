package repositories

import (
	"context"

	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Document, error)
	Update(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
	List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.DocumentFilters, params common.ListParams) ([]*models.Document, int, error)
}

type documentRepo struct {
	db DBTX
}

func NewDocumentRepo(db DBTX) DocumentRepository {
	return &documentRepo{db: db}
}

const documentColumns = `d.id, d.customer_id, d.location_id, d.task_id, d.title, d.file_name, d.content_type, d.size,
	d.object_key, d.uploaded_by, d.created_at, d.updated_at`

var documentSorts = sortFields{
	fields: map[string]string{
		"title":     "d.title",
		"fileName":  "d.file_name",
		"size":      "d.size",
		"createdAt": "d.created_at",
	},
	fallback: "createdAt",
	tieBreak: "d.id",
}

func scanDocument(row scanner) (*models.Document, error) {
	d := &models.Document{}
	err := row.Scan(&d.ID, &d.CustomerID, &d.LocationID, &d.TaskID, &d.Title, &d.FileName, &d.ContentType, &d.Size,
		&d.ObjectKey, &d.UploadedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *documentRepo) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (id, customer_id, location_id, task_id, title, file_name, content_type, size,
			object_key, uploaded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, doc.ID, doc.CustomerID, doc.LocationID, doc.TaskID, doc.Title, doc.FileName,
		doc.ContentType, doc.Size, doc.ObjectKey, doc.UploadedBy).Scan(&doc.CreatedAt, &doc.UpdatedAt)
}

func (r *documentRepo) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents d WHERE d.customer_id = $1 AND d.id = $2 AND d.deleted_at IS NULL`
	d, err := scanDocument(r.db.QueryRow(ctx, query, customerID, id))
	if err != nil {
		return nil, notFound(err, "document")
	}
	return d, nil
}

func (r *documentRepo) Update(ctx context.Context, doc *models.Document) error {
	query := `
		UPDATE documents
		SET title = $1, location_id = $2, task_id = $3, updated_at = NOW()
		WHERE customer_id = $4 AND id = $5 AND deleted_at IS NULL
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, doc.Title, doc.LocationID, doc.TaskID, doc.CustomerID, doc.ID).Scan(&doc.UpdatedAt)
	return notFound(err, "document")
}

func (r *documentRepo) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	query := `UPDATE documents SET deleted_at = NOW() WHERE customer_id = $1 AND id = $2 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, customerID, id)
	return affectedOne(tag, err, "document")
}

// List hides location-bound documents outside scope; documents without a location stay visible.
func (r *documentRepo) List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.DocumentFilters, params common.ListParams) ([]*models.Document, int, error) {
	q := newListQuery(documentColumns, "documents d", "d.customer_id", customerID)
	q.where("d.deleted_at IS NULL")
	if scope.Restricted {
		if len(scope.LocationIDs) == 0 {
			q.where("d.location_id IS NULL")
		} else {
			q.where("(d.location_id IS NULL OR d.location_id = ANY(?))", scope.LocationIDs)
		}
	}
	q.search(params.Search, "d.title", "d.file_name")
	eq(q, "d.location_id", filters.LocationID)
	eq(q, "d.task_id", filters.TaskID)
	eq(q, "d.uploaded_by", filters.UploadedBy)
	return runList(ctx, r.db, q, params, documentSorts, scanDocument)
}
