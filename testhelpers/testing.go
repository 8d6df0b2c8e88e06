package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/repositories"
	"taskboard/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL and applies the schema. The test is
// skipped when the variable is unset.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, connString, 4, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if _, err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	db := &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
	t.Cleanup(func() { _ = db.Cleanup() })
	return db
}

// SetupTestCustomer creates a customer with a unique domain. Its rows are removed
// through the ON DELETE CASCADE foreign keys when the test ends.
func SetupTestCustomer(t *testing.T, db *TestDB) *models.Customer {
	t.Helper()

	id := uuid.New()
	customer := &models.Customer{
		ID:     id,
		Name:   "Test Customer",
		Domain: id.String() + ".test.local",
		Active: true,
	}
	if err := repositories.NewCustomerRepo(db.Pool).Create(context.Background(), customer); err != nil {
		t.Fatalf("Failed to create test customer: %v", err)
	}

	t.Cleanup(func() {
		ctx := context.Background()
		// tasks reference each other and locations reference users, so clear them before the cascade
		_, _ = db.Pool.Exec(ctx, `DELETE FROM tasks WHERE customer_id = $1`, id)
		_, _ = db.Pool.Exec(ctx, `UPDATE users SET default_location_id = NULL WHERE customer_id = $1`, id)
		_, _ = db.Pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	})
	return customer
}

// SetupTestLocation creates a scheduler-active location for customerID.
func SetupTestLocation(t *testing.T, db *TestDB, customerID uuid.UUID, name string) *models.Location {
	t.Helper()

	location := &models.Location{
		ID:              uuid.New(),
		CustomerID:      customerID,
		Name:            name,
		SchedulerActive: true,
	}
	if err := repositories.NewLocationRepo(db.Pool).Create(context.Background(), location); err != nil {
		t.Fatalf("Failed to create test location: %v", err)
	}
	return location
}

// SetupTestTask creates a pending event task due at dueAt.
func SetupTestTask(t *testing.T, db *TestDB, customerID, locationID uuid.UUID, title string, dueAt time.Time) *models.Task {
	t.Helper()

	task := &models.Task{
		ID:         uuid.New(),
		CustomerID: customerID,
		LocationID: locationID,
		Title:      title,
		Type:       models.TaskTypeEvent,
		Color:      models.ColorWhite,
		DueAt:      &dueAt,
	}
	if err := repositories.NewTaskRepo(db.Pool).Create(context.Background(), task); err != nil {
		t.Fatalf("Failed to create test task: %v", err)
	}
	return task
}
