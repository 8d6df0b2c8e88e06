package handlers

import (
	"net/http"

	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/labstack/echo/v4"
)

// TopicHandlers handles the topic (task category) tree.
type TopicHandlers struct {
	topicService services.TopicService
}

func NewTopicHandlers(topicService services.TopicService) *TopicHandlers {
	return &TopicHandlers{topicService: topicService}
}

// ListTopics handles GET /topics. parentID=root restricts to top-level topics.
func (h *TopicHandlers) ListTopics(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}

	q := query(c)
	params := q.ListParams()
	var filters models.TopicFilters
	if c.QueryParam("parentID") == "root" {
		filters.RootOnly = true
	} else {
		filters.ParentID = q.UUID("parentID")
	}
	if err := q.Err(); err != nil {
		return err
	}

	page, err := h.topicService.List(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *TopicHandlers) CreateTopic(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req services.TopicRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	topic, err := h.topicService.Create(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, topic)
}

func (h *TopicHandlers) GetTopic(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	topic, err := h.topicService.Get(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, topic)
}

func (h *TopicHandlers) UpdateTopic(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.TopicRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	topic, err := h.topicService.Update(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, topic)
}

// DeleteTopic refuses topics that still have children or live tasks (409).
func (h *TopicHandlers) DeleteTopic(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.topicService.Delete(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
