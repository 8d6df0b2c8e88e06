package services

import (
	"context"
	"errors"
	"slices"
	"strings"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/google/uuid"
)

type UserService interface {
	Create(ctx context.Context, principal *common.Principal, req *UserRequest) (*models.User, error)
	Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *UserRequest) (*models.User, error)
	UpdatePassword(ctx context.Context, principal *common.Principal, id uuid.UUID, req *PasswordRequest) error
	Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error
	List(ctx context.Context, principal *common.Principal, filters models.UserFilters, params common.ListParams) (common.Page[*models.User], error)
	Me(ctx context.Context, principal *common.Principal) (*CurrentUser, error)
}

// UserRequest is the body of user create and update. Password is only read on create.
type UserRequest struct {
	LoginName         string     `json:"loginName"`
	Email             string     `json:"email"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Password          string     `json:"password,omitempty"`
	Active            *bool      `json:"active"`
	Approved          *bool      `json:"approved"`
	NotifyEmail       *bool      `json:"notifyEmail"`
	NotifySMS         *bool      `json:"notifySms"`
	UserType          string     `json:"userType"`
	DefaultLocationID *uuid.UUID `json:"defaultLocationID"`
}

type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password"`
}

// CurrentUser is the body of GET /v1/me. LocationIDs is null for admins, who see every location.
type CurrentUser struct {
	*models.User
	LocationIDs []uuid.UUID `json:"locationIDs"`
}

var userTypes = []string{common.UserTypeSuperAdmin, common.UserTypeAdmin, common.UserTypeUser}

type userService struct {
	users     repositories.UserRepository
	locations repositories.LocationRepository
	access    AccessService
}

func NewUserService(users repositories.UserRepository, locations repositories.LocationRepository, access AccessService) UserService {
	return &userService{users: users, locations: locations, access: access}
}

func (s *userService) validate(ctx context.Context, principal *common.Principal, req *UserRequest, creating bool) error {
	v := &apperrors.ValidationError{}
	if strings.TrimSpace(req.LoginName) == "" {
		v.Add("loginName", "loginName is required")
	}
	if email := strings.TrimSpace(req.Email); email == "" || !strings.Contains(email, "@") {
		v.Add("email", "email must be a valid address")
	}
	if strings.TrimSpace(req.LastName) == "" {
		v.Add("lastName", "lastName is required")
	}
	if creating {
		if msg := passwordProblem(req.Password); msg != "" {
			v.Add("password", msg)
		}
	}
	if req.UserType != "" && !slices.Contains(userTypes, req.UserType) {
		v.Add("userType", "userType must be one of: super_admin, admin, user")
	}
	if req.DefaultLocationID != nil {
		if _, err := s.locations.GetByID(ctx, principal.CustomerID, *req.DefaultLocationID); err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			v.Add("defaultLocationID", "defaultLocationID must reference a location of this customer")
		}
	}
	return v.OrNil()
}

func (s *userService) Create(ctx context.Context, principal *common.Principal, req *UserRequest) (*models.User, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if req.UserType == "" {
		req.UserType = common.UserTypeUser
	}
	if err := s.validate(ctx, principal, req, true); err != nil {
		return nil, err
	}
	if req.UserType == common.UserTypeSuperAdmin {
		if err := requireSuperAdmin(principal); err != nil {
			return nil, err
		}
	}

	hash, salt, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:                uuid.New(),
		CustomerID:        principal.CustomerID,
		LoginName:         strings.TrimSpace(req.LoginName),
		Email:             strings.TrimSpace(req.Email),
		FirstName:         strings.TrimSpace(req.FirstName),
		LastName:          strings.TrimSpace(req.LastName),
		PasswordHash:      hash,
		Salt:              salt,
		Active:            req.Active == nil || *req.Active,
		Approved:          req.Approved == nil || *req.Approved,
		NotifyEmail:       req.NotifyEmail != nil && *req.NotifyEmail,
		NotifySMS:         req.NotifySMS != nil && *req.NotifySMS,
		UserType:          req.UserType,
		DefaultLocationID: req.DefaultLocationID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get allows the user itself, admins, and users sharing a visible location.
func (s *userService) Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	if principal.IsAdmin() || id == principal.UserID {
		return user, nil
	}
	shared, err := s.access.SharesLocation(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if shared {
		return user, nil
	}
	return nil, apperrors.Forbidden("user does not share a location with the current user")
}

func (s *userService) Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *UserRequest) (*models.User, error) {
	self := id == principal.UserID
	if !principal.IsAdmin() && !self {
		return nil, apperrors.Forbidden("only administrators may edit other users")
	}

	user, err := s.users.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	if req.UserType == "" {
		req.UserType = user.UserType
	}
	if err := s.validate(ctx, principal, req, false); err != nil {
		return nil, err
	}

	privileged := req.UserType != user.UserType ||
		(req.Active != nil && *req.Active != user.Active) ||
		(req.Approved != nil && *req.Approved != user.Approved)
	if privileged && !principal.IsAdmin() {
		return nil, apperrors.Forbidden("only administrators may change userType, active or approved")
	}
	// Nobody promotes themselves; a super_admin may only step down on their own record.
	promoting := req.UserType == common.UserTypeSuperAdmin && user.UserType != common.UserTypeSuperAdmin
	if promoting || (user.UserType == common.UserTypeSuperAdmin && !self) {
		if err := requireSuperAdmin(principal); err != nil {
			return nil, err
		}
	}

	user.LoginName = strings.TrimSpace(req.LoginName)
	user.Email = strings.TrimSpace(req.Email)
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.UserType = req.UserType
	user.DefaultLocationID = req.DefaultLocationID
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Approved != nil {
		user.Approved = *req.Approved
	}
	if req.NotifyEmail != nil {
		user.NotifyEmail = *req.NotifyEmail
	}
	if req.NotifySMS != nil {
		user.NotifySMS = *req.NotifySMS
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword lets a user change its own password with the current one, or an admin reset any password.
func (s *userService) UpdatePassword(ctx context.Context, principal *common.Principal, id uuid.UUID, req *PasswordRequest) error {
	self := id == principal.UserID
	if !self && !principal.IsAdmin() {
		return apperrors.Forbidden("only administrators may reset other users' passwords")
	}
	if msg := passwordProblem(req.Password); msg != "" {
		return apperrors.Invalid("password", msg)
	}
	user, err := s.users.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return err
	}
	if user.UserType == common.UserTypeSuperAdmin && !self {
		if err := requireSuperAdmin(principal); err != nil {
			return err
		}
	}
	if self && !checkPassword(user.PasswordHash, user.Salt, req.CurrentPassword) {
		return apperrors.Invalid("currentPassword", "currentPassword is incorrect")
	}
	hash, salt, err := hashPassword(req.Password)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, principal.CustomerID, id, hash, salt)
}

func (s *userService) Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	if id == principal.UserID {
		return apperrors.Conflict("users cannot delete their own account")
	}
	user, err := s.users.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return err
	}
	if user.UserType == common.UserTypeSuperAdmin {
		if err := requireSuperAdmin(principal); err != nil {
			return err
		}
	}
	return s.users.Delete(ctx, principal.CustomerID, id)
}

func (s *userService) List(ctx context.Context, principal *common.Principal, filters models.UserFilters, params common.ListParams) (common.Page[*models.User], error) {
	scope, err := s.access.Scope(ctx, principal)
	if err != nil {
		return common.Page[*models.User]{}, err
	}
	items, total, err := s.users.List(ctx, principal.CustomerID, scope, filters, params)
	if err != nil {
		return common.Page[*models.User]{}, err
	}
	return common.NewPage(items, total, params), nil
}

func (s *userService) Me(ctx context.Context, principal *common.Principal) (*CurrentUser, error) {
	user, err := s.users.GetByID(ctx, principal.CustomerID, principal.UserID)
	if err != nil {
		return nil, err
	}
	ids, err := s.access.VisibleLocationIDs(ctx, principal)
	if err != nil {
		return nil, err
	}
	return &CurrentUser{User: user, LocationIDs: ids}, nil
}
