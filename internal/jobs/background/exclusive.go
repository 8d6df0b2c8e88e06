package background

import (
	"context"
	"sync"

	"taskboard/internal/apperrors"
	"taskboard/internal/services"
)

// exclusiveMaintenance lets at most one run of each maintenance job proceed in this
// process, whether the scheduler or the jobs endpoint started it.
type exclusiveMaintenance struct {
	next      services.MaintenanceService
	colors    sync.Mutex
	recurring sync.Mutex
}

// Exclusive wraps next so that a job started while the same job is still running
// fails with a conflict instead of running twice. Share one wrapper between the
// scheduler and the HTTP handlers.
func Exclusive(next services.MaintenanceService) services.MaintenanceService {
	return &exclusiveMaintenance{next: next}
}

func (e *exclusiveMaintenance) RefreshColors(ctx context.Context) (int64, error) {
	if !e.colors.TryLock() {
		return 0, apperrors.Conflict(JobColorRefresh + " is already running")
	}
	defer e.colors.Unlock()
	return e.next.RefreshColors(ctx)
}

func (e *exclusiveMaintenance) InstantiateRecurring(ctx context.Context) (int, error) {
	if !e.recurring.TryLock() {
		return 0, apperrors.Conflict(JobRecurring + " is already running")
	}
	defer e.recurring.Unlock()
	return e.next.InstantiateRecurring(ctx)
}
