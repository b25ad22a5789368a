package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"go-facility-api/internal/model"
	"go-facility-api/internal/repository"
	"go-facility-api/pkg/validator"
)

var (
	ErrEmailExists = errors.New("email already registered")
	ErrRoleInvalid = errors.New("invalid role")
)

type UserService interface {
	CreateUser(req *CreateUserRequest, createdBy string) (*model.User, error)
	GetUsers() ([]model.User, error)
	GetUserByID(id uuid.UUID) (*model.User, error)
	UpdateUser(id uuid.UUID, req *UpdateUserRequest, updatedBy string) (*model.User, error)
	DeleteUser(id uuid.UUID, deletedBy string) error
	GetRoles() ([]model.Role, error)
}

type CreateUserRequest struct {
	Email         string     `json:"email" validate:"required,email"`
	Password      string     `json:"password" validate:"required,min=8"`
	FullName      string     `json:"full_name" validate:"required,min=2"`
	PhoneNumber   string     `json:"phone_number" validate:"omitempty"`
	RoleID        uint       `json:"role_id" validate:"required,gt=0"`
	CurrentSiteID *uuid.UUID `json:"current_site_id" validate:"omitempty"`
}

type UpdateUserRequest struct {
	Email         string     `json:"email" validate:"omitempty,email"`
	FullName      string     `json:"full_name" validate:"omitempty,min=2"`
	PhoneNumber   string     `json:"phone_number" validate:"omitempty"`
	RoleID        *uint      `json:"role_id" validate:"omitempty,gt=0"`
	CurrentSiteID *uuid.UUID `json:"current_site_id" validate:"omitempty"`
	IsActive      *bool      `json:"is_active" validate:"omitempty"`
	Password      string     `json:"password" validate:"omitempty,min=8"`
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	siteRepo repository.SiteRepository
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, siteRepo repository.SiteRepository) UserService {
	return &userService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		siteRepo: siteRepo,
	}
}

func (s *userService) CreateUser(req *CreateUserRequest, createdBy string) (*model.User, error) {
	// 1. Validate request
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Check if email already exists
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, ErrEmailExists
	}

	// 3. Validate role exists
	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, ErrRoleInvalid
	}

	// 4. Validate site when one is assigned
	if req.CurrentSiteID != nil {
		if _, err := s.siteRepo.FindByID(*req.CurrentSiteID); err != nil {
			return nil, ErrSiteNotFound
		}
	}

	// 5. Create user
	user := &model.User{
		Email:         req.Email,
		FullName:      req.FullName,
		PhoneNumber:   req.PhoneNumber,
		RoleID:        &role.ID,
		CurrentSiteID: req.CurrentSiteID,
		IsActive:      true,
	}
	user.CreatedBy = createdBy

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(user.ID)
}

func (s *userService) GetUsers() ([]model.User, error) {
	return s.userRepo.FindAll()
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) UpdateUser(id uuid.UUID, req *UpdateUserRequest, updatedBy string) (*model.User, error) {
	// 1. Validate request
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Find existing user
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// 3. Apply updates
	if req.Email != "" && req.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
			return nil, ErrEmailExists
		}
		user.Email = req.Email
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.RoleID != nil {
		role, err := s.roleRepo.FindByID(*req.RoleID)
		if err != nil {
			return nil, ErrRoleInvalid
		}
		user.RoleID = &role.ID
	}
	if req.CurrentSiteID != nil {
		if _, err := s.siteRepo.FindByID(*req.CurrentSiteID); err != nil {
			return nil, ErrSiteNotFound
		}
		user.CurrentSiteID = req.CurrentSiteID
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}
	user.UpdatedBy = updatedBy

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(user.ID)
}

func (s *userService) DeleteUser(id uuid.UUID, deletedBy string) error {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return ErrUserNotFound
	}
	user.DeletedBy = deletedBy
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	return s.userRepo.Delete(id)
}

func (s *userService) GetRoles() ([]model.Role, error) {
	return s.roleRepo.FindAll()
}
