package services

import (
	"context"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/google/uuid"
)

type AssessmentService interface {
	Create(ctx context.Context, principal *common.Principal, req *AssessmentRequest) (*models.TasksAssessmentInfo, error)
	Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.TasksAssessmentInfo, error)
	Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *AssessmentRequest) (*models.TasksAssessmentInfo, error)
	Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error
	List(ctx context.Context, principal *common.Principal, filters models.AssessmentFilters, params common.ListParams) (common.Page[*models.TasksAssessmentInfo], error)
}

type AssessmentRequest struct {
	TaskID   uuid.UUID `json:"taskID"`
	Score    float64   `json:"score"`
	MaxScore float64   `json:"maxScore"`
	Notes    string    `json:"notes"`
}

type assessmentService struct {
	assessments repositories.AssessmentRepository
	tasks       repositories.TaskRepository
	access      AccessService
}

func NewAssessmentService(assessments repositories.AssessmentRepository, tasks repositories.TaskRepository, access AccessService) AssessmentService {
	return &assessmentService{assessments: assessments, tasks: tasks, access: access}
}

// checkTask requires a visible task of type assessment.
func (s *assessmentService) checkTask(ctx context.Context, principal *common.Principal, taskID uuid.UUID) error {
	task, err := s.tasks.GetByID(ctx, principal.CustomerID, taskID)
	if err != nil {
		return err
	}
	if err := s.access.RequireLocation(ctx, principal, task.LocationID); err != nil {
		return err
	}
	if task.Type != models.TaskTypeAssessment {
		return apperrors.Invalid("taskID", "taskID must reference an assessment task")
	}
	return nil
}

func validateScores(req *AssessmentRequest) error {
	v := &apperrors.ValidationError{}
	if req.MaxScore <= 0 {
		v.Add("maxScore", "maxScore must be greater than 0")
	}
	if req.Score < 0 || (req.MaxScore > 0 && req.Score > req.MaxScore) {
		v.Add("score", "score must be between 0 and maxScore")
	}
	return v.OrNil()
}

func (s *assessmentService) Create(ctx context.Context, principal *common.Principal, req *AssessmentRequest) (*models.TasksAssessmentInfo, error) {
	if err := validateScores(req); err != nil {
		return nil, err
	}
	if err := s.checkTask(ctx, principal, req.TaskID); err != nil {
		return nil, err
	}
	assessor := principal.UserID
	info := &models.TasksAssessmentInfo{
		ID:         uuid.New(),
		CustomerID: principal.CustomerID,
		TaskID:     req.TaskID,
		Score:      req.Score,
		MaxScore:   req.MaxScore,
		Notes:      req.Notes,
		AssessedBy: &assessor,
	}
	if err := s.assessments.Create(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (s *assessmentService) Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.TasksAssessmentInfo, error) {
	info, err := s.assessments.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, principal.CustomerID, info.TaskID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireLocation(ctx, principal, task.LocationID); err != nil {
		return nil, err
	}
	return info, nil
}

func (s *assessmentService) Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *AssessmentRequest) (*models.TasksAssessmentInfo, error) {
	info, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := validateScores(req); err != nil {
		return nil, err
	}
	if req.TaskID != info.TaskID {
		if err := s.checkTask(ctx, principal, req.TaskID); err != nil {
			return nil, err
		}
	}
	assessor := principal.UserID
	info.TaskID = req.TaskID
	info.Score = req.Score
	info.MaxScore = req.MaxScore
	info.Notes = req.Notes
	info.AssessedBy = &assessor
	if err := s.assessments.Update(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (s *assessmentService) Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	if _, err := s.Get(ctx, principal, id); err != nil {
		return err
	}
	return s.assessments.Delete(ctx, principal.CustomerID, id)
}

func (s *assessmentService) List(ctx context.Context, principal *common.Principal, filters models.AssessmentFilters, params common.ListParams) (common.Page[*models.TasksAssessmentInfo], error) {
	scope, err := s.access.Scope(ctx, principal)
	if err != nil {
		return common.Page[*models.TasksAssessmentInfo]{}, err
	}
	items, total, err := s.assessments.List(ctx, principal.CustomerID, scope, filters, params)
	if err != nil {
		return common.Page[*models.TasksAssessmentInfo]{}, err
	}
	return common.NewPage(items, total, params), nil
}
