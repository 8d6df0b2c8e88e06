package repositories_test

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/models"
	"taskboard/internal/repositories"
	"taskboard/testhelpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepoAgainstDatabase(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	ctx := context.Background()
	repo := repositories.NewTaskRepo(db.Pool)

	customer := testhelpers.SetupTestCustomer(t, db)
	other := testhelpers.SetupTestCustomer(t, db)
	north := testhelpers.SetupTestLocation(t, db, customer.ID, "North")
	south := testhelpers.SetupTestLocation(t, db, customer.ID, "South")

	now := time.Now().UTC().Truncate(time.Second)
	overdue := testhelpers.SetupTestTask(t, db, customer.ID, north.ID, "Overdue check", now.Add(-time.Hour))
	soon := testhelpers.SetupTestTask(t, db, customer.ID, south.ID, "Soon check", now.Add(2*time.Hour))
	later := testhelpers.SetupTestTask(t, db, customer.ID, north.ID, "Later check", now.Add(72*time.Hour))

	params := common.ListParams{PerPage: 15, Page: 1, OrderBy: "ASC"}

	t.Run("list is tenant scoped", func(t *testing.T) {
		tasks, total, err := repo.List(ctx, other.ID, models.Unrestricted(), models.TaskFilters{}, params)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, tasks)

		_, err = repo.GetByID(ctx, other.ID, overdue.ID)
		assert.Error(t, err)
	})

	t.Run("list is location scoped", func(t *testing.T) {
		tasks, total, err := repo.List(ctx, customer.ID, models.RestrictedTo([]uuid.UUID{south.ID}), models.TaskFilters{}, params)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, tasks, 1)
		assert.Equal(t, soon.ID, tasks[0].ID)
		require.NotNil(t, tasks[0].LocationName)
		assert.Equal(t, "South", *tasks[0].LocationName)
	})

	t.Run("list orders by due date", func(t *testing.T) {
		tasks, total, err := repo.List(ctx, customer.ID, models.Unrestricted(), models.TaskFilters{}, params)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, tasks, 3)
		assert.Equal(t, []uuid.UUID{overdue.ID, soon.ID, later.ID}, []uuid.UUID{tasks[0].ID, tasks[1].ID, tasks[2].ID})
	})

	t.Run("refresh colors", func(t *testing.T) {
		changed, err := repo.RefreshColors(ctx, customer.ID, now, now.Add(24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(2), changed)

		got, err := repo.GetByID(ctx, customer.ID, overdue.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ColorRed, got.Color)

		got, err = repo.GetByID(ctx, customer.ID, soon.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ColorYellow, got.Color)

		got, err = repo.GetByID(ctx, customer.ID, later.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ColorWhite, got.Color)
	})

	t.Run("completion and soft delete", func(t *testing.T) {
		completedAt := now
		later.CompletedAt = &completedAt
		later.Color = models.ColorGreen
		require.NoError(t, repo.Complete(ctx, later))
		assert.ErrorIs(t, repo.Complete(ctx, later), apperrors.ErrConflict)

		completed := true
		tasks, total, err := repo.List(ctx, customer.ID, models.Unrestricted(), models.TaskFilters{Completed: &completed}, params)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, tasks, 1)
		assert.Equal(t, later.ID, tasks[0].ID)

		require.NoError(t, repo.Delete(ctx, customer.ID, later.ID))
		_, err = repo.GetByID(ctx, customer.ID, later.ID)
		assert.Error(t, err)
	})
}
