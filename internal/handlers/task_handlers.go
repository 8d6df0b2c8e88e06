package handlers

import (
	"net/http"

	"taskboard/internal/common"
	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/labstack/echo/v4"
)

// TaskHandlers handles tasks, task sets and their completion.
type TaskHandlers struct {
	taskService       services.TaskService
	completionService services.CompletionService
}

func NewTaskHandlers(taskService services.TaskService, completionService services.CompletionService) *TaskHandlers {
	return &TaskHandlers{
		taskService:       taskService,
		completionService: completionService,
	}
}

// ListTasks handles GET /tasks
func (h *TaskHandlers) ListTasks(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}

	q := query(c)
	params := q.ListParams()
	filters := models.TaskFilters{
		LocationID:        q.UUID("locationID"),
		TopicID:           q.UUID("topicID"),
		AssignedUserID:    q.UUID("assignedUserID"),
		AssignedProfileID: q.UUID("assignedProfileID"),
		Type:              q.OneOf("type", models.TaskTypes...),
		Color:             q.OneOf("color", models.AllColors...),
		IsTaskSet:         q.Bool("isTaskSet"),
		IsTemplate:        q.Bool("isTemplate"),
		TaskSetTemplateID: q.UUID("taskSetTemplateID"),
		Completed:         q.Bool("completed"),
	}
	filters.DueFrom, filters.DueTo = q.Range("dueFrom", "dueTo")
	if err := q.Err(); err != nil {
		return err
	}

	page, err := h.taskService.List(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *TaskHandlers) CreateTask(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req services.TaskRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	task, err := h.taskService.Create(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, task)
}

func (h *TaskHandlers) GetTask(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	task, err := h.taskService.Get(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, task)
}

func (h *TaskHandlers) UpdateTask(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.TaskRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	task, err := h.taskService.Update(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, task)
}

// DeleteTask soft-deletes a task; deleting a set also removes its children.
func (h *TaskHandlers) DeleteTask(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.taskService.Delete(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// completedFilters reads the filters shared by the completed task and task set lists.
func completedFilters(c echo.Context) (models.TaskFilters, common.ListParams, error) {
	q := query(c)
	params := q.ListParams()
	filters := models.TaskFilters{
		LocationID:    q.UUID("locationID"),
		TopicID:       q.UUID("topicID"),
		UserCompleted: q.UUID("userCompleted"),
	}
	filters.CompletedFrom, filters.CompletedTo = q.Range("completedFrom", "completedTo")
	return filters, params, q.Err()
}

// CompleteTask handles POST /tasks/:id/complete
func (h *TaskHandlers) CompleteTask(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	task, err := h.completionService.CompleteTask(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, task)
}

// ReopenTask handles DELETE /completed-tasks/:id
func (h *TaskHandlers) ReopenTask(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	task, err := h.completionService.ReopenTask(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, task)
}

func (h *TaskHandlers) ListCompletedTasks(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	filters, params, err := completedFilters(c)
	if err != nil {
		return err
	}
	page, err := h.completionService.ListCompletedTasks(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

// TaskSetProgress handles GET /task-sets/:id/progress
func (h *TaskHandlers) TaskSetProgress(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	progress, err := h.completionService.Progress(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, progress)
}

// CompleteTaskSet requires every live child to be completed.
func (h *TaskHandlers) CompleteTaskSet(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	set, err := h.completionService.CompleteTaskSet(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, set)
}

func (h *TaskHandlers) ReopenTaskSet(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	set, err := h.completionService.ReopenTaskSet(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, set)
}

func (h *TaskHandlers) ListCompletedTaskSets(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	filters, params, err := completedFilters(c)
	if err != nil {
		return err
	}
	page, err := h.completionService.ListCompletedTaskSets(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}
