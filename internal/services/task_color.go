package services

import (
	"math"
	"time"

	"taskboard/internal/models"

	"github.com/google/uuid"
)

// ColorFor classifies a task. Completed tasks are green when done by the due date (or undated)
// and orange when late. Pending tasks are red past due, yellow inside the due-soon window,
// white otherwise.
func ColorFor(t *models.Task, now time.Time, dueSoon time.Duration) string {
	if t.CompletedAt != nil {
		if t.DueAt == nil || !t.CompletedAt.After(*t.DueAt) {
			return models.ColorGreen
		}
		return models.ColorOrange
	}
	switch {
	case t.DueAt == nil:
		return models.ColorWhite
	case t.DueAt.Before(now):
		return models.ColorRed
	case t.DueAt.Before(now.Add(dueSoon)):
		return models.ColorYellow
	}
	return models.ColorWhite
}

// ComputeProgress turns child counts into a percentage with two decimals. Empty sets are 0%.
func ComputeProgress(setID uuid.UUID, total, completed int) models.TaskProgress {
	p := models.TaskProgress{TaskSetID: setID, Total: total, Completed: completed}
	if total > 0 {
		p.Percent = round2(float64(completed) * 100 / float64(total))
	}
	return p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NextOccurrence steps from base by the recurrence period until the result lies after now.
// A base already in the future is returned unchanged.
func NextOccurrence(base time.Time, recurrence string, now time.Time) time.Time {
	var days int
	switch recurrence {
	case models.RecurrenceDaily:
		days = 1
	case models.RecurrenceWeekly:
		days = 7
	case models.RecurrenceMonthly:
		next := base
		for months := 1; !next.After(now); months++ {
			next = base.AddDate(0, months, 0)
		}
		return next
	default:
		return base
	}
	if base.After(now) {
		return base
	}
	steps := int(now.Sub(base)/(time.Duration(days)*24*time.Hour)) + 1
	next := base.AddDate(0, 0, steps*days)
	for !next.After(now) {
		next = next.AddDate(0, 0, days)
	}
	return next
}
