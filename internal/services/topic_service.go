package services

import (
	"context"
	"strings"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/google/uuid"
)

type TopicService interface {
	Create(ctx context.Context, principal *common.Principal, req *TopicRequest) (*models.Topic, error)
	Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Topic, error)
	Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *TopicRequest) (*models.Topic, error)
	Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error
	List(ctx context.Context, principal *common.Principal, filters models.TopicFilters, params common.ListParams) (common.Page[*models.Topic], error)
}

type TopicRequest struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	TopicParentID *uuid.UUID `json:"topicParentID"`
}

type topicService struct {
	topics repositories.TopicRepository
}

func NewTopicService(topics repositories.TopicRepository) TopicService {
	return &topicService{topics: topics}
}

// checkParent verifies the parent exists in the tenant and that id is not among its ancestors.
func (s *topicService) checkParent(ctx context.Context, customerID uuid.UUID, id uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	if *parentID == id {
		return apperrors.Invalid("topicParentID", "a topic cannot be its own parent")
	}
	if _, err := s.topics.GetByID(ctx, customerID, *parentID); err != nil {
		return err
	}
	ancestors, err := s.topics.AncestorIDs(ctx, customerID, *parentID)
	if err != nil {
		return err
	}
	for _, a := range ancestors {
		if a == id {
			return apperrors.Invalid("topicParentID", "a topic cannot be moved below one of its descendants")
		}
	}
	return nil
}

func (s *topicService) Create(ctx context.Context, principal *common.Principal, req *TopicRequest) (*models.Topic, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.Invalid("name", "name is required")
	}
	topic := &models.Topic{
		ID:            uuid.New(),
		CustomerID:    principal.CustomerID,
		Name:          strings.TrimSpace(req.Name),
		Description:   strings.TrimSpace(req.Description),
		TopicParentID: req.TopicParentID,
	}
	if err := s.checkParent(ctx, principal.CustomerID, topic.ID, req.TopicParentID); err != nil {
		return nil, err
	}
	if err := s.topics.Create(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *topicService) Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Topic, error) {
	return s.topics.GetByID(ctx, principal.CustomerID, id)
}

func (s *topicService) Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *TopicRequest) (*models.Topic, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.Invalid("name", "name is required")
	}
	topic, err := s.topics.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, principal.CustomerID, id, req.TopicParentID); err != nil {
		return nil, err
	}
	topic.Name = strings.TrimSpace(req.Name)
	topic.Description = strings.TrimSpace(req.Description)
	topic.TopicParentID = req.TopicParentID
	if err := s.topics.Update(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *topicService) Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	if _, err := s.topics.GetByID(ctx, principal.CustomerID, id); err != nil {
		return err
	}
	children, err := s.topics.CountChildren(ctx, principal.CustomerID, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return apperrors.Conflict("topic still has child topics")
	}
	tasks, err := s.topics.CountTasks(ctx, principal.CustomerID, id)
	if err != nil {
		return err
	}
	if tasks > 0 {
		return apperrors.Conflict("topic is still referenced by tasks")
	}
	return s.topics.Delete(ctx, principal.CustomerID, id)
}

func (s *topicService) List(ctx context.Context, principal *common.Principal, filters models.TopicFilters, params common.ListParams) (common.Page[*models.Topic], error) {
	items, total, err := s.topics.List(ctx, principal.CustomerID, filters, params)
	if err != nil {
		return common.Page[*models.Topic]{}, err
	}
	return common.NewPage(items, total, params), nil
}
