package services

import (
	"errors"
	"testing"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestColorFor(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	window := 48 * time.Hour

	tests := []struct {
		name string
		task models.Task
		want string
	}{
		{"pending without due date", models.Task{}, models.ColorWhite},
		{"pending past due", models.Task{DueAt: ptrTime(now.Add(-time.Minute))}, models.ColorRed},
		{"pending inside window", models.Task{DueAt: ptrTime(now.Add(24 * time.Hour))}, models.ColorYellow},
		{"pending beyond window", models.Task{DueAt: ptrTime(now.Add(72 * time.Hour))}, models.ColorWhite},
		{"completed without due date", models.Task{CompletedAt: ptrTime(now)}, models.ColorGreen},
		{"completed on time", models.Task{DueAt: ptrTime(now), CompletedAt: ptrTime(now.Add(-time.Hour))}, models.ColorGreen},
		{"completed exactly at due", models.Task{DueAt: ptrTime(now), CompletedAt: ptrTime(now)}, models.ColorGreen},
		{"completed late", models.Task{DueAt: ptrTime(now.Add(-time.Hour)), CompletedAt: ptrTime(now)}, models.ColorOrange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColorFor(&tt.task, now, window))
		})
	}
}

func TestComputeProgress(t *testing.T) {
	id := uuid.New()

	p := ComputeProgress(id, 3, 1)
	assert.Equal(t, id, p.TaskSetID)
	assert.Equal(t, 33.33, p.Percent)

	assert.Equal(t, 100.0, ComputeProgress(id, 4, 4).Percent)
	assert.Equal(t, 0.0, ComputeProgress(id, 0, 0).Percent)
	assert.Equal(t, 66.67, ComputeProgress(id, 3, 2).Percent)
}

func TestNextOccurrence(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("daily steps past now", func(t *testing.T) {
		base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC), NextOccurrence(base, models.RecurrenceDaily, now))
	})

	t.Run("weekly keeps weekday", func(t *testing.T) {
		base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		next := NextOccurrence(base, models.RecurrenceWeekly, now)
		assert.Equal(t, time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), next)
		assert.Equal(t, base.Weekday(), next.Weekday())
	})

	t.Run("monthly", func(t *testing.T) {
		base := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2024, 4, 5, 9, 0, 0, 0, time.UTC), NextOccurrence(base, models.RecurrenceMonthly, now))
	})

	t.Run("future base unchanged", func(t *testing.T) {
		base := now.Add(time.Hour)
		assert.Equal(t, base, NextOccurrence(base, models.RecurrenceDaily, now))
		assert.Equal(t, base, NextOccurrence(base, models.RecurrenceMonthly, now))
	})

	t.Run("unknown recurrence", func(t *testing.T) {
		base := now.Add(-time.Hour)
		assert.Equal(t, base, NextOccurrence(base, "yearly", now))
	})
}

func TestBuildTaskStatusGroups(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	counts := []models.TaskStatusCount{
		{GroupID: &a, GroupName: "Safety", Color: models.ColorGreen, Count: 3},
		{GroupID: &b, GroupName: "Hygiene", Color: models.ColorRed, Count: 2},
		{GroupID: &a, GroupName: "Safety", Color: models.ColorRed, Count: 1},
		{GroupID: nil, GroupName: "", Color: models.ColorWhite, Count: 4},
	}

	groups := BuildTaskStatusGroups(counts)
	assert.Len(t, groups, 3)

	assert.Equal(t, &a, groups[0].GroupID)
	assert.Equal(t, 4, groups[0].Total)
	assert.Equal(t, 3, groups[0].Counts[models.ColorGreen])
	assert.Equal(t, 75.0, groups[0].Percentages[models.ColorGreen])
	assert.Equal(t, 25.0, groups[0].Percentages[models.ColorRed])
	assert.Equal(t, 0, groups[0].Counts[models.ColorYellow])
	assert.Len(t, groups[0].Counts, len(models.AllColors))

	assert.Equal(t, 100.0, groups[1].Percentages[models.ColorRed])

	assert.Nil(t, groups[2].GroupID)
	assert.Equal(t, 4, groups[2].Counts[models.ColorWhite])
}

func TestBuildTaskStatusGroupsEmpty(t *testing.T) {
	groups := BuildTaskStatusGroups(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestNormalizeHost(t *testing.T) {
	tests := map[string]string{
		"https://www.Acme.example.com:8443/login?x=1": "acme.example.com",
		"acme.example.com":                            "acme.example.com",
		"http://localhost:3000":                       "localhost",
		"  ":                                          "",
		"":                                            "",
		"null":                                        "",
		"Null":                                        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeHost(in), in)
	}
}

func TestCheckRange(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	assert.NoError(t, checkRange("dueFrom", "dueTo", nil, nil))
	assert.NoError(t, checkRange("dueFrom", "dueTo", &from, &to))
	assert.NoError(t, checkRange("dueFrom", "dueTo", &from, &from))

	err := checkRange("dueFrom", "dueTo", &from, nil)
	var v *apperrors.ValidationError
	assert.True(t, errors.As(err, &v))
	assert.Equal(t, "dueFrom and dueTo must be provided together", v.Fields["dueFrom"])

	err = checkRange("dueFrom", "dueTo", &to, &from)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.True(t, errors.As(err, &v))
	assert.Contains(t, v.Fields, "dueTo")
}
